// cmd/tools/profile-tool/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"coffee-scout/pkg/profile"
)

const defaultProfilePath = "configs/profiles/coffee.json"

func main() {
	initCmd := flag.NewFlagSet("init", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	showCmd := flag.NewFlagSet("show", flag.ExitOnError)

	// Init command flags
	pathInit := initCmd.String("path", defaultProfilePath, "Where to write the profile file")
	category := initCmd.String("category", "", "Category label for the new profile (defaults to coffee)")

	// Validate command flags
	pathValidate := validateCmd.String("path", defaultProfilePath, "Path to profile file")

	// Show command flags
	pathShow := showCmd.String("path", defaultProfilePath, "Path to profile file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		initCmd.Parse(os.Args[2:])
		err := initProfile(*pathInit, *category)
		if err != nil {
			fmt.Printf("Error creating profile: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created profile: %s\n", *pathInit)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		err := validateProfile(*pathValidate)
		if err != nil {
			fmt.Printf("Profile validation failed: %v\n", err)
			os.Exit(1)
		}

	case "show":
		showCmd.Parse(os.Args[2:])
		err := showProfile(*pathShow)
		if err != nil {
			fmt.Printf("Error reading profile: %v\n", err)
			os.Exit(1)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

// initProfile writes the compiled-in default sets to path. An existing
// file is never overwritten.
func initProfile(path, category string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("profile %s already exists", path)
	}

	prof := profile.Default()
	if category != "" {
		prof.Category = category
	}

	return saveProfile(prof, path)
}

func validateProfile(path string) error {
	prof, err := profile.Load(path)
	if err != nil {
		return err
	}

	fmt.Printf("Profile validation passed. Category %q with %d name keywords.\n",
		prof.Category, len(prof.NameKeywords))
	return nil
}

// showProfile prints the profile after load-time normalization, which is
// what the filter actually matches against.
func showProfile(path string) error {
	prof, err := profile.Load(path)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(prof, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	fmt.Println(string(data))
	return nil
}

// saveProfile handles saving the profile to file
func saveProfile(prof *profile.Profile, path string) error {
	data, err := json.MarshalIndent(prof, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write profile file: %w", err)
	}

	return nil
}

func help() {
	fmt.Print(`
Usage: profile-tool <command> [flags]

Commands:
  init     Write a new profile with the default keyword sets
  validate Validate a profile file against the schema
  show     Print a profile after normalization
  help     Show this help message

Examples:
  profile-tool init -path configs/profiles/tea.json -category tea
  profile-tool validate -path configs/profiles/coffee.json
  profile-tool show -path configs/profiles/coffee.json

Use 'profile-tool <command> -h' for more information about a command.

`)
}
