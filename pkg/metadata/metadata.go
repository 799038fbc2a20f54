// Package metadata edits on-chain account info records: logo URIs and
// resolver metadata.
package metadata

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xescure/keecli/pkg/account"
	"github.com/xescure/keecli/pkg/keeta"
	"github.com/xescure/keecli/pkg/types"
)

// Updater performs read-modify-write edits of account info records. The
// ledger has no field-level patch primitive, so the whole record is read,
// transformed, and written back in one set operation. Concurrent writers
// race last-writer-wins; no optimistic concurrency check is made.
type Updater struct {
	ledger keeta.Ledger
	signer *account.Identity
}

// NewUpdater creates an updater signing as id.
func NewUpdater(ledger keeta.Ledger, id *account.Identity) *Updater {
	return &Updater{ledger: ledger, signer: id}
}

// Update reads target's info record, applies patch, and writes the
// result back. Fields the patch leaves alone survive unchanged.
func (u *Updater) Update(ctx context.Context, target string, patch func(*keeta.AccountInfo) error) error {
	info, err := u.ledger.AccountInfo(ctx, target)
	if err != nil {
		return fmt.Errorf("read account info: %w", err)
	}
	if err := patch(info); err != nil {
		return err
	}
	if err := u.ledger.SetInfo(ctx, u.signer, target, info); err != nil {
		return fmt.Errorf("write account info: %w", err)
	}
	return nil
}

// SetLogo merges logoURI into the token account's metadata JSON object,
// preserving every other key (decimalPlaces and anything else already
// published).
func (u *Updater) SetLogo(ctx context.Context, token, logoURI string) error {
	return u.Update(ctx, token, func(info *keeta.AccountInfo) error {
		meta := map[string]any{}
		if info.Metadata != "" {
			raw, err := base64.StdEncoding.DecodeString(info.Metadata)
			if err != nil {
				return fmt.Errorf("%w: existing metadata is not valid base64: %v", types.ErrValidation, err)
			}
			if err := json.Unmarshal(raw, &meta); err != nil {
				return fmt.Errorf("%w: existing metadata is not valid JSON: %v", types.ErrValidation, err)
			}
		}
		if _, ok := meta["decimalPlaces"]; !ok {
			meta["decimalPlaces"] = 0
		}
		meta["logoURI"] = logoURI

		encoded, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		info.Metadata = base64.StdEncoding.EncodeToString(encoded)
		return nil
	})
}

// SetResolverMetadata replaces target's info record with the formatted
// resolver metadata, blanking name and description the way the resolver
// schema expects.
func (u *Updater) SetResolverMetadata(ctx context.Context, target string, rawJSON []byte) error {
	var parsed map[string]any
	if err := json.Unmarshal(rawJSON, &parsed); err != nil {
		return fmt.Errorf("%w: invalid metadata JSON: %v", types.ErrValidation, err)
	}
	formatted, err := json.Marshal(parsed)
	if err != nil {
		return err
	}
	return u.Update(ctx, target, func(info *keeta.AccountInfo) error {
		info.Name = ""
		info.Description = ""
		info.Metadata = base64.StdEncoding.EncodeToString(formatted)
		return nil
	})
}

var dataURIPattern = regexp.MustCompile(`^data:image/(png|jpeg|jpg|webp);base64,`)

// LogoURI turns a logo input into a URI suitable for token metadata.
// https:, ipfs: and data: inputs pass through (data: URIs must carry a
// supported image MIME type); anything else is treated as a local file
// path and embedded as a base64 data: URI.
func LogoURI(input string) (string, error) {
	if strings.HasPrefix(input, "https:") || strings.HasPrefix(input, "ipfs:") {
		return input, nil
	}
	if strings.HasPrefix(input, "data:") {
		if !dataURIPattern.MatchString(input) {
			return "", fmt.Errorf("%w: data: URI must be a base64 image/png, image/jpeg or image/webp", types.ErrValidation)
		}
		return input, nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: file %s", types.ErrNotFound, input)
		}
		return "", err
	}

	var mimeType string
	switch strings.ToLower(filepath.Ext(input)) {
	case ".png":
		mimeType = "image/png"
	case ".jpg", ".jpeg":
		mimeType = "image/jpeg"
	case ".webp":
		mimeType = "image/webp"
	default:
		return "", fmt.Errorf("%w: unsupported file type %q (supported: .png, .jpg, .jpeg, .webp)", types.ErrValidation, filepath.Ext(input))
	}

	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)), nil
}
