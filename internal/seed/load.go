package seed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultCatalog is the built-in seed used when no source is configured.
const DefaultCatalog = `Mastering åäö;Average Swede;762.00;15
How To Spend Money;Rich Bloke;1,000,000.00;1
Generic Title;First Author;185.50;5
Generic Title;Second Author;1,748.00;3
Random Sales;Cunning Bastard;999.00;20
Random Sales;Cunning Bastard;499.50;3
Desired;Rich Bloke;564.50;0`

// Load fetches raw seed text from source: an http(s) URL is fetched over
// the network with the given timeout, anything else is read as a file
// path, and an empty source yields DefaultCatalog. Callers are expected
// to treat a load failure as non-fatal and start with an empty catalog.
func Load(ctx context.Context, source string, timeout time.Duration) (string, error) {
	if source == "" {
		return DefaultCatalog, nil
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return loadURL(ctx, source, timeout)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("read seed file: %w", err)
	}
	return string(data), nil
}

func loadURL(ctx context.Context, url string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build seed request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch seed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch seed: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read seed response: %w", err)
	}
	return string(data), nil
}
