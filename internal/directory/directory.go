// Package directory keeps a named list of boreds on disk, one of which may
// be the home bored opened by default.
package directory

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dyluth/bored/pkg/address"
)

var (
	// ErrNotFound is returned when no entry has the requested name.
	ErrNotFound = errors.New("no such directory entry")
	// ErrDuplicate is returned when adding a name that is already listed.
	ErrDuplicate = errors.New("directory entry already exists")
	// ErrNoHome is returned when no home bored has been chosen.
	ErrNoHome = errors.New("no home bored set")
)

// Entry is a named bored address.
type Entry struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

// Directory is the on-disk list of boreds.
type Directory struct {
	Home    string  `yaml:"home,omitempty"`
	Entries []Entry `yaml:"entries"`
}

// Load reads the directory at path. A missing file is an empty directory.
func Load(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Directory{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var d Directory
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := d.validate(); err != nil {
		return nil, fmt.Errorf("invalid directory: %w", err)
	}
	return &d, nil
}

func (d *Directory) validate() error {
	seen := make(map[string]bool, len(d.Entries))
	for _, e := range d.Entries {
		if e.Name == "" {
			return fmt.Errorf("entry with address '%s' has no name", e.Address)
		}
		if seen[e.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicate, e.Name)
		}
		seen[e.Name] = true
		if _, err := address.Parse(e.Address); err != nil {
			return fmt.Errorf("entry '%s': %w", e.Name, err)
		}
	}
	if d.Home != "" && !seen[d.Home] {
		return fmt.Errorf("home '%s' is not listed", d.Home)
	}
	return nil
}

// Save writes the directory to path, creating parent directories.
func (d *Directory) Save(path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write directory: %w", err)
	}
	return nil
}

// Add lists addr under name.
func (d *Directory) Add(name string, addr address.Address) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if d.index(name) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	d.Entries = append(d.Entries, Entry{Name: name, Address: addr.String()})
	return nil
}

// Remove drops name, clearing the home bored if it was the home.
func (d *Directory) Remove(name string) error {
	i := d.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	d.Entries = slices.Delete(d.Entries, i, i+1)
	if d.Home == name {
		d.Home = ""
	}
	return nil
}

// Lookup returns the address listed under name.
func (d *Directory) Lookup(name string) (address.Address, error) {
	i := d.index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return address.Parse(d.Entries[i].Address)
}

// SetHome makes name the home bored.
func (d *Directory) SetHome(name string) error {
	if d.index(name) < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	d.Home = name
	return nil
}

// HomeAddress returns the address of the home bored.
func (d *Directory) HomeAddress() (address.Address, error) {
	if d.Home == "" {
		return nil, ErrNoHome
	}
	return d.Lookup(d.Home)
}

// List returns the entries sorted by name.
func (d *Directory) List() []Entry {
	entries := slices.Clone(d.Entries)
	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return entries
}

// Addresses returns the address of every entry, in name order.
func (d *Directory) Addresses() []address.Address {
	var addrs []address.Address
	for _, e := range d.List() {
		if addr, err := address.Parse(e.Address); err == nil {
			addrs = append(addrs, addr)
		}
	}
	return addrs
}

// Resolve turns a directory name or a bored address into an address, trying
// the name first.
func (d *Directory) Resolve(nameOrAddress string) (address.Address, error) {
	if d.index(nameOrAddress) >= 0 {
		return d.Lookup(nameOrAddress)
	}
	return address.Parse(nameOrAddress)
}

func (d *Directory) index(name string) int {
	return slices.IndexFunc(d.Entries, func(e Entry) bool {
		return e.Name == name
	})
}

// FormatTable writes the entries as a table, marking the home bored.
// Returns the number of entries written.
func (d *Directory) FormatTable(w io.Writer) int {
	entries := d.List()
	if len(entries) == 0 {
		fmt.Fprintf(w, "No boreds in the directory\n")
		return 0
	}

	fmt.Fprintf(w, "%-4s %-20s %s\n", "HOME", "NAME", "ADDRESS")
	fmt.Fprintf(w, "%-4s %-20s %s\n", "----", "--------------------", "------------------------------")
	for _, e := range entries {
		home := ""
		if e.Name == d.Home {
			home = "*"
		}
		fmt.Fprintf(w, "%-4s %-20s %s\n", home, e.Name, e.Address)
	}

	noun := "bored"
	if len(entries) != 1 {
		noun = "boreds"
	}
	fmt.Fprintf(w, "\n%d %s listed\n", len(entries), noun)
	return len(entries)
}
