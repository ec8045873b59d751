package event

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/go-github/v55/github"
)

// zeroSHA is the all-zero object id GitHub sends for absent range endpoints.
const zeroSHA = "0000000000000000000000000000000000000000"

// PushPayload captures the subset of GitHub push event data used to derive a
// revision range.
type PushPayload struct {
	Repository Repository
	Ref        string
	Before     string
	After      string
	Created    bool
	Deleted    bool
	Forced     bool
}

// Repository identifies the owner/name of the repository where the event originated.
type Repository struct {
	Owner string
	Name  string
}

// Range returns the before..after revision range of the push, or ok=false
// when the push has no usable range (branch creation, deletion, or a missing
// endpoint).
func (p PushPayload) Range() (string, bool) {
	if p.Created || p.Deleted {
		return "", false
	}
	if p.Before == "" || p.After == "" || p.Before == zeroSHA || p.After == zeroSHA {
		return "", false
	}
	return fmt.Sprintf("%s..%s", p.Before, p.After), true
}

// ParsePushEvent decodes a GitHub push event payload from the provided reader.
func ParsePushEvent(r io.Reader) (PushPayload, error) {
	var raw github.PushEvent

	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return PushPayload{}, fmt.Errorf("decode push event: %w", err)
	}

	payload := PushPayload{
		Repository: Repository{
			Owner: strings.TrimSpace(raw.GetRepo().GetOwner().GetLogin()),
			Name:  strings.TrimSpace(raw.GetRepo().GetName()),
		},
		Ref:     strings.TrimSpace(raw.GetRef()),
		Before:  strings.TrimSpace(raw.GetBefore()),
		After:   strings.TrimSpace(raw.GetAfter()),
		Created: raw.GetCreated(),
		Deleted: raw.GetDeleted(),
		Forced:  raw.GetForced(),
	}

	return payload, nil
}

// ParsePushEventFile reads the event JSON from disk.
func ParsePushEventFile(path string) (PushPayload, error) {
	f, err := os.Open(path)
	if err != nil {
		return PushPayload{}, fmt.Errorf("open event file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "failed to close event file: %v\n", closeErr)
		}
	}()

	return ParsePushEvent(f)
}
