// pkg/profile/profile.go
package profile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"coffee-scout/internal/common/errors"
)

// Load reads and validates a relevance profile from a JSON file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse validates raw JSON against the profile schema and unmarshals it.
// Every rejected document comes back as a PROFILE_VALIDATION_FAILED error,
// so startup can report the abort with its typed code.
func Parse(data []byte) (*Profile, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.NewProfileValidationFailedError(err.Error())
	}
	p.normalize()
	return &p, nil
}

func validate(data []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(profileSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return errors.NewProfileValidationFailedError(err.Error())
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return errors.NewProfileValidationFailedError(fmt.Sprintf("%v", errs))
	}

	return nil
}
