// Package resources implements the resource-lookup collaborator against
// the upstream Supabase store.
package resources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"

	"ussd_lms/pkg"
)

// ErrLookupUnavailable reports a transport or upstream failure. Callers
// treat it as "no resources found" and never surface it to the end user.
var ErrLookupUnavailable = fmt.Errorf("resource lookup unavailable")

// SupabaseFinder queries the resources table through the Supabase REST
// endpoint.
type SupabaseFinder struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewSupabaseFinder creates a finder for the given project URL and key.
func NewSupabaseFinder(baseURL, apiKey string, timeout time.Duration) *SupabaseFinder {
	return &SupabaseFinder{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// FindResources returns all resources matching the subject and grade.
func (f *SupabaseFinder) FindResources(ctx context.Context, subject, grade string) ([]pkg.Resource, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("subject", "eq."+subject)
	q.Set("grade", "eq."+grade)
	endpoint := fmt.Sprintf("%s/rest/v1/resources?%s", f.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupUnavailable, err)
	}
	req.Header.Set("apikey", f.apiKey)
	req.Header.Set("Authorization", "Bearer "+f.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrLookupUnavailable, resp.StatusCode)
	}

	var out []pkg.Resource
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupUnavailable, err)
	}
	return out, nil
}
