package sample

import (
	"regexp"
	"sort"

	"github.com/open-source-cooperative/keyring-core/pkg/keyring"
)

var searchKeys = []string{"service", "user", "comment", "uuid"}

// Search scans the whole store for records matching the spec. Each spec
// value is a Go regular expression; a record matches only if every supplied
// pattern matches its corresponding field (an absent key constrains
// nothing). Results are wrapper entries, one per matching record, ordered
// by (service, user, uuid).
func (s *Store) Search(spec map[string]string) ([]*keyring.Entry, error) {
	patterns := make(map[string]*regexp.Regexp, len(spec))
	for key, value := range spec {
		recognized := false
		for _, k := range searchKeys {
			if key == k {
				recognized = true
				break
			}
		}
		if !recognized {
			return nil, &keyring.InvalidError{Field: key, Reason: "unknown search key"}
		}
		re, err := regexp.Compile(value)
		if err != nil {
			return nil, &keyring.InvalidError{Field: key, Reason: err.Error()}
		}
		patterns[key] = re
	}

	type match struct {
		id   credID
		uuid string
	}
	var matches []match
	s.mu.RLock()
	for id, b := range s.buckets {
		if re, ok := patterns["service"]; ok && !re.MatchString(id.service) {
			continue
		}
		if re, ok := patterns["user"]; ok && !re.MatchString(id.user) {
			continue
		}
		b.mu.RLock()
		for u, rec := range b.records {
			if re, ok := patterns["uuid"]; ok && !re.MatchString(u) {
				continue
			}
			if re, ok := patterns["comment"]; ok {
				rec.mu.Lock()
				comment := rec.comment
				rec.mu.Unlock()
				if comment == nil || !re.MatchString(*comment) {
					continue
				}
			}
			matches = append(matches, match{id: id, uuid: u})
		}
		b.mu.RUnlock()
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].id.service != matches[j].id.service {
			return matches[i].id.service < matches[j].id.service
		}
		if matches[i].id.user != matches[j].id.user {
			return matches[i].id.user < matches[j].id.user
		}
		return matches[i].uuid < matches[j].uuid
	})
	entries := make([]*keyring.Entry, 0, len(matches))
	for _, m := range matches {
		wrapper := &Credential{store: s, id: m.id, uuid: m.uuid}
		entries = append(entries, keyring.NewFromCredential(wrapper))
	}
	return entries, nil
}
