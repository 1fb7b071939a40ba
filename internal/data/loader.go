// Package data embeds the reference lists used to synthesise borrower
// identities: given names, surnames, cities and street names.
package data

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed names/*.json addresses/*.json
var dataFiles embed.FS

// ReferenceData holds all loaded reference data for the generator
type ReferenceData struct {
	FirstNames FirstNamesData
	LastNames  LastNamesData
	Cities     CitiesData
	Streets    StreetsData
}

// FirstNamesData represents the structure of first_names.json
type FirstNamesData struct {
	Male   []string `json:"male"`
	Female []string `json:"female"`
}

// LastNamesData represents the structure of last_names.json
type LastNamesData struct {
	Names []string `json:"names"`
}

// CitiesData represents the structure of cities.json
type CitiesData struct {
	Cities []City `json:"cities"`
}

// City is a city with its state and the first three digits of its PIN codes
type City struct {
	City      string `json:"city"`
	State     string `json:"state"`
	PINPrefix string `json:"pin_prefix"`
}

// StreetsData represents the structure of streets.json
type StreetsData struct {
	Streets      []string `json:"streets"`
	EmailDomains []string `json:"email_domains"`
}

var (
	instance *ReferenceData
	once     sync.Once
	loadErr  error
)

// Load loads all reference data from embedded files.
// This is thread-safe and will only load data once.
func Load() (*ReferenceData, error) {
	once.Do(func() {
		instance = &ReferenceData{}
		loadErr = instance.loadAll()
	})

	if loadErr != nil {
		return nil, loadErr
	}
	return instance, nil
}

func (r *ReferenceData) loadAll() error {
	files := []struct {
		path   string
		target any
	}{
		{"names/first_names.json", &r.FirstNames},
		{"names/last_names.json", &r.LastNames},
		{"addresses/cities.json", &r.Cities},
		{"addresses/streets.json", &r.Streets},
	}

	for _, f := range files {
		data, err := dataFiles.ReadFile(f.path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", f.path, err)
		}
		if err := json.Unmarshal(data, f.target); err != nil {
			return fmt.Errorf("failed to parse %s: %w", f.path, err)
		}
	}

	return r.validate()
}

// validate rejects empty lists so generators never pick from nothing
func (r *ReferenceData) validate() error {
	switch {
	case len(r.FirstNames.Male) == 0 || len(r.FirstNames.Female) == 0:
		return fmt.Errorf("first_names.json: male and female lists are required")
	case len(r.LastNames.Names) == 0:
		return fmt.Errorf("last_names.json: names list is empty")
	case len(r.Cities.Cities) == 0:
		return fmt.Errorf("cities.json: cities list is empty")
	case len(r.Streets.Streets) == 0 || len(r.Streets.EmailDomains) == 0:
		return fmt.Errorf("streets.json: streets and email_domains are required")
	}
	return nil
}

// GetFirstNames returns first names for a gender
func (r *ReferenceData) GetFirstNames(isMale bool) []string {
	if isMale {
		return r.FirstNames.Male
	}
	return r.FirstNames.Female
}

// GetLastNames returns all surnames
func (r *ReferenceData) GetLastNames() []string {
	return r.LastNames.Names
}

// GetCities returns all cities
func (r *ReferenceData) GetCities() []City {
	return r.Cities.Cities
}

// GetStreets returns all street names
func (r *ReferenceData) GetStreets() []string {
	return r.Streets.Streets
}

// GetEmailDomains returns the mailbox providers used for synthetic emails
func (r *ReferenceData) GetEmailDomains() []string {
	return r.Streets.EmailDomains
}
