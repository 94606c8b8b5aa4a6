package pattern

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mclog/mclog-go/internal/safefile"
	"github.com/mclog/mclog-go/pkg/mclog"
	"github.com/mclog/mclog-go/pkg/mclog/record"
)

const (
	// MaxFileSize is the maximum allowed size for a variant file.
	MaxFileSize = 1 * 1024 * 1024 // 1 MB

	// MaxPatternLength caps a single regex to keep pathological
	// user-supplied patterns from stalling classification.
	MaxPatternLength = 512

	// MaxVariantCount caps the number of variants in one file.
	MaxVariantCount = 1000

	// SupportedVersion is the supported variant file format version.
	SupportedVersion = 1
)

// sanitizePathError strips the path out of os.PathError so error
// messages shown to users don't leak file system layout.
func sanitizePathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%s: %w", pathErr.Op, pathErr.Err)
	}
	return err
}

// Load reads and validates a variant file. Non-regular files are
// rejected and reads are size-limited.
func Load(path string) (*File, error) {
	f, info, err := safefile.OpenRegular(path)
	if err != nil {
		return nil, fmt.Errorf("opening variant file: %w", sanitizePathError(err))
	}
	defer f.Close()

	if info.Size() == 0 {
		return nil, errors.New("variant file is empty")
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("variant file too large: %d bytes (max %d)", info.Size(), MaxFileSize)
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading variant file: %w", sanitizePathError(err))
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("variant file too large (max %d bytes)", MaxFileSize)
	}
	return LoadBytes(data)
}

// LoadBytes parses and validates a variant file from a byte slice.
func LoadBytes(data []byte) (*File, error) {
	if len(data) == 0 {
		return nil, errors.New("variant file is empty")
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("variant file too large (max %d bytes)", MaxFileSize)
	}

	var pf File
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := pf.Validate(); err != nil {
		return nil, err
	}
	return &pf, nil
}

// Validate performs schema-level validation: version, required
// fields, unique IDs, known event types and pattern length limits.
// Regex compilation happens in Apply, not here.
func (pf *File) Validate() error {
	if pf.Version != SupportedVersion {
		return &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (only version %d is supported)", pf.Version, SupportedVersion),
		}
	}
	if len(pf.Variants) == 0 {
		return &ValidationError{
			Field:   "variants",
			Message: "at least one variant is required",
		}
	}
	if len(pf.Variants) > MaxVariantCount {
		return &ValidationError{
			Field:   "variants",
			Message: fmt.Sprintf("too many variants (%d), maximum allowed is %d", len(pf.Variants), MaxVariantCount),
		}
	}

	seenIDs := make(map[string]int, len(pf.Variants))
	for i, v := range pf.Variants {
		if v.ID == "" {
			return &VariantError{Index: i, Field: "id", Message: "id is required"}
		}
		if v.EventType == "" {
			return &VariantError{Index: i, ID: v.ID, Field: "event_type", Message: "event_type is required"}
		}
		if _, ok := record.ParseType(v.EventType); !ok {
			return &VariantError{
				Index: i, ID: v.ID, Field: "event_type",
				Message: fmt.Sprintf("unknown event type %q", v.EventType),
			}
		}
		if v.Tester == "" {
			return &VariantError{Index: i, ID: v.ID, Field: "tester", Message: "tester is required"}
		}
		if v.Extractor == "" {
			return &VariantError{Index: i, ID: v.ID, Field: "extractor", Message: "extractor is required"}
		}
		if prev, exists := seenIDs[v.ID]; exists {
			return &VariantError{
				Index: i, ID: v.ID, Field: "id",
				Message: fmt.Sprintf("duplicate id (previously defined at variant[%d])", prev),
			}
		}
		seenIDs[v.ID] = i

		if len(v.Tester) > MaxPatternLength {
			return &VariantError{
				Index: i, ID: v.ID, Field: "tester",
				Message: fmt.Sprintf("pattern too long: %d bytes (max %d)", len(v.Tester), MaxPatternLength),
			}
		}
		if len(v.Extractor) > MaxPatternLength {
			return &VariantError{
				Index: i, ID: v.ID, Field: "extractor",
				Message: fmt.Sprintf("pattern too long: %d bytes (max %d)", len(v.Extractor), MaxPatternLength),
			}
		}
	}
	return nil
}

// Apply compiles the file's variants and registers them with the
// engine. Compilation errors surface as VariantErrors.
func Apply(e *mclog.Engine, pf *File) error {
	if pf == nil {
		return errors.New("variant file is nil")
	}
	for i, v := range pf.Variants {
		t, _ := record.ParseType(v.EventType)
		if err := e.AddVariant(t, v.ID, v.Tester, v.Extractor); err != nil {
			return &VariantError{
				Index: i, ID: v.ID, Field: "regex",
				Message: "registering variant", Cause: err,
			}
		}
	}
	return nil
}

// ApplyFile loads a variant file and registers it in one step.
func ApplyFile(e *mclog.Engine, path string) error {
	pf, err := Load(path)
	if err != nil {
		return err
	}
	return Apply(e, pf)
}
