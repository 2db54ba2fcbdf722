package urlcheck

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Whitelist is a set of allowed hostnames.
type Whitelist map[string]struct{}

func NewWhitelist(hosts ...string) Whitelist {
	w := make(Whitelist, len(hosts))
	for _, h := range hosts {
		w.Add(h)
	}

	return w
}

func (w Whitelist) Add(host string) {
	w[strings.ToLower(host)] = struct{}{}
}

func (w Whitelist) Contains(host string) bool {
	_, ok := w[strings.ToLower(host)]

	return ok
}

// LoadWhitelist reads one hostname per line, skipping blank lines. With
// autoWWW every host not starting with "www" also gets its "www." variant.
func LoadWhitelist(r io.Reader, autoWWW bool) (Whitelist, error) {
	w := NewWhitelist()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		host := strings.TrimSpace(scanner.Text())
		if host == "" {
			continue
		}

		w.Add(host)

		if autoWWW && !strings.HasPrefix(host, "www") {
			w.Add("www." + host)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read whitelist: %w", err)
	}

	return w, nil
}

// LoadWhitelistFile is LoadWhitelist over the file at path.
func LoadWhitelistFile(path string, autoWWW bool) (Whitelist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open whitelist: %w", err)
	}
	defer f.Close()

	return LoadWhitelist(f, autoWWW)
}
