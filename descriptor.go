package vinyl

import (
	"fmt"
	"io/fs"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mwantia/vinyl/data"
)

// Field names with dedicated handling. Everything else is an attribute.
const (
	FieldID       = "id"
	FieldPath     = "path"
	FieldHistory  = "history"
	FieldCwd      = "cwd"
	FieldBase     = "base"
	FieldStat     = "stat"
	FieldContents = "contents"
	FieldRelative = "relative"
)

var reservedFields = map[string]struct{}{
	FieldID:       {},
	FieldPath:     {},
	FieldHistory:  {},
	FieldCwd:      {},
	FieldBase:     {},
	FieldStat:     {},
	FieldContents: {},
	FieldRelative: {},
}

func reservedField(name string) bool {
	_, ok := reservedFields[name]
	return ok
}

type descriptor struct {
	Path       string         `mapstructure:"path"`
	History    []string       `mapstructure:"history"`
	Cwd        string         `mapstructure:"cwd"`
	Base       string         `mapstructure:"base"`
	Attributes map[string]any `mapstructure:",remain"`
}

// FromMap creates a File from a partial descriptor. Recognized keys are
// path, history, cwd, base, stat and contents; any other key becomes a
// custom attribute.
func FromMap(m map[string]any) (*File, error) {
	var opts []Option
	rest := make(map[string]any, len(m))

	for key, value := range m {
		switch key {
		case FieldPath:
			if value != nil {
				if _, ok := value.(string); !ok {
					return nil, fmt.Errorf("%w: got %T", ErrInvalidPathType, value)
				}
			}
			rest[key] = value
		case FieldContents:
			opts = append(opts, WithContents(value))
		case FieldStat:
			stat, err := toStat(value)
			if err != nil {
				return nil, err
			}
			opts = append(opts, WithStat(stat))
		case FieldRelative:
			return nil, ErrImmutableDerivedField
		case FieldID:
			return nil, fmt.Errorf("%w: '%s' is assigned on construction", ErrInvalidDescriptor, key)
		default:
			rest[key] = value
		}
	}

	var desc descriptor
	if err := mapstructure.Decode(rest, &desc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}

	opts = append(opts,
		WithHistory(desc.History...),
		WithPath(desc.Path),
		WithCwd(desc.Cwd),
		WithBase(desc.Base),
	)
	for key, value := range desc.Attributes {
		opts = append(opts, WithAttribute(key, value))
	}

	return New(opts...)
}

// Set assigns a field by name, applying the same checks as the typed
// setters. Unknown names are stored as attributes.
func (f *File) Set(name string, value any) error {
	switch name {
	case FieldPath:
		p, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: got %T", ErrInvalidPathType, value)
		}
		f.SetPath(p)
	case FieldContents:
		return f.SetContents(value)
	case FieldRelative:
		return ErrImmutableDerivedField
	case FieldID, FieldHistory:
		return fmt.Errorf("%w: '%s' can not be assigned", ErrInvalidDescriptor, name)
	case FieldCwd, FieldBase:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: '%s' should be a string, got %T", ErrInvalidDescriptor, name, value)
		}
		if name == FieldCwd {
			f.SetCwd(s)
		} else {
			f.SetBase(s)
		}
	case FieldStat:
		stat, err := toStat(value)
		if err != nil {
			return err
		}
		f.SetStat(stat)
	default:
		return f.SetAttr(name, value)
	}

	return nil
}

// Get reads a field by name. Unknown names read attributes and return nil
// when the attribute is not set.
func (f *File) Get(name string) (any, error) {
	switch name {
	case FieldID:
		return f.id, nil
	case FieldPath:
		return f.Path(), nil
	case FieldHistory:
		return f.History(), nil
	case FieldCwd:
		return f.cwd, nil
	case FieldBase:
		return f.base, nil
	case FieldStat:
		return f.stat, nil
	case FieldContents:
		return f.Contents(), nil
	case FieldRelative:
		return f.Relative()
	default:
		v, _ := f.Attr(name)
		return v, nil
	}
}

func toStat(v any) (*data.Stat, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case *data.Stat:
		return s, nil
	case data.Stat:
		return &s, nil
	case fs.FileInfo:
		return data.StatFromFileInfo(s), nil
	default:
		return nil, fmt.Errorf("%w: stat should be a *data.Stat or fs.FileInfo, got %T", ErrInvalidDescriptor, v)
	}
}
