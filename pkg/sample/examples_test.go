package sample_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/open-source-cooperative/keyring-core/pkg/keyring"
	"github.com/open-source-cooperative/keyring-core/pkg/sample"
)

// Example_ambiguity walks through detecting and resolving an ambiguous
// (service, user) pair: several records are force-created for one pair, a
// plain specifier then fails with an AmbiguousError, and the caller uses the
// wrapper entries it carries to prune the pair back down to one record.
func Example_ambiguity() {
	keyring.SetDefaultStore(sample.New())
	defer keyring.UnsetDefaultStore()

	// force-create four records for the same pair, commented e1..e4
	for i := 1; i <= 4; i++ {
		comment := fmt.Sprintf("e%d", i)
		entry, err := keyring.NewWithModifiers("svc", "usr", map[string]string{"create": comment})
		if err != nil {
			log.Fatal(err)
		}
		if err := entry.SetPassword("password for " + comment); err != nil {
			log.Fatal(err)
		}
	}

	// a plain specifier now reports every candidate
	specifier, err := keyring.New("svc", "usr")
	if err != nil {
		log.Fatal(err)
	}
	_, err = specifier.GetPassword()
	var ambiguous *keyring.AmbiguousError
	if !errors.As(err, &ambiguous) {
		log.Fatalf("expected an ambiguity, got %v", err)
	}
	fmt.Printf("specifier matched %d records\n", len(ambiguous.Entries))

	// keep e1, delete the rest through their wrapper entries
	for _, candidate := range ambiguous.Entries {
		attrs, err := candidate.GetAttributes()
		if err != nil {
			log.Fatal(err)
		}
		if attrs["comment"] == "e1" {
			cred, _ := sample.CredentialFor(candidate)
			fmt.Printf("keeping e1, pinned to a record uuid: %v\n", cred.UUID() != "")
			continue
		}
		if err := candidate.DeleteCredential(); err != nil {
			log.Fatal(err)
		}
	}

	password, err := specifier.GetPassword()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("after resolution the password is %q\n", password)

	// Output:
	// specifier matched 4 records
	// keeping e1, pinned to a record uuid: true
	// after resolution the password is "password for e1"
}
