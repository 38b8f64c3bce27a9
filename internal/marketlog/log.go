package marketlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/corriander/eve-telemetrics/internal/order"
)

// ErrNoLogs is returned by Latest for a directory without logs.
var ErrNoLogs = errors.New("no market logs found")

// Log is one imported log file.
type Log struct {
	Path   string
	Orders []*order.Simple
}

// Read parses CSV log content into orders.
func Read(r io.Reader) ([]*order.Simple, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var orders []*order.Simple
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		data := make(order.Data, len(header))
		for i, column := range header {
			// The client ends every row with a comma.
			if column == "" {
				continue
			}
			name, value, err := normalize(column, record[i])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			data[name] = value
		}
		orders = append(orders, order.New(data))
	}
	return orders, nil
}

// Open imports the log at path.
func Open(path string) (*Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open market log: %w", err)
	}
	defer f.Close()

	orders, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return &Log{Path: path, Orders: orders}, nil
}

// OpenName imports the log called filename in dir.
func OpenName(dir, filename string) (*Log, error) {
	return Open(filepath.Join(dir, filename))
}

// Entry is a log file found on disk.
type Entry struct {
	Path    string
	Name    Name
	ModTime time.Time
}

// List returns the logs in dir, oldest first.
func List(dir string) ([]Entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list market logs: %w", err)
	}

	var entries []Entry
	for _, de := range des {
		if de.IsDir() || !strings.EqualFold(filepath.Ext(de.Name()), ".txt") {
			continue
		}
		info, err := de.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", de.Name(), err)
		}
		name, _ := ParseName(de.Name())
		entries = append(entries, Entry{
			Path:    filepath.Join(dir, de.Name()),
			Name:    name,
			ModTime: info.ModTime(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ModTime.Before(entries[j].ModTime)
	})
	return entries, nil
}

// Latest imports the most recently written log in dir.
func Latest(dir string) (*Log, error) {
	entries, err := List(dir)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoLogs
	}
	return Open(entries[len(entries)-1].Path)
}

// Name is the parsed form of a log file name such as
// "The Forge-Tritanium-2018.07.05 180712.txt" or
// "My Orders-2018.07.05 1807.txt".
type Name struct {
	Subject  string // "The Forge-Tritanium" or "My Orders"
	Exported time.Time
}

var exportLayouts = []string{"2006.01.02 150405", "2006.01.02 1504"}

// ParseName splits a log file name into its subject and export time.
func ParseName(filename string) (Name, error) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	i := strings.LastIndexByte(base, '-')
	if i < 0 {
		return Name{Subject: base}, fmt.Errorf("no export time in %q", filename)
	}

	subject, stamp := base[:i], base[i+1:]
	for _, layout := range exportLayouts {
		if t, err := time.Parse(layout, stamp); err == nil {
			return Name{Subject: subject, Exported: t}, nil
		}
	}
	return Name{Subject: base}, fmt.Errorf("no export time in %q", filename)
}
