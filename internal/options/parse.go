package options

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"gopkg.microglot.org/tsproto.go/internal/exc"
)

// SourceParameter is the exception URI used for plugin parameter entries.
const SourceParameter = "parameter"

// Entry is a single key=value assignment from either the plugin parameter or
// a config file. Source names where it came from for diagnostics.
type Entry struct {
	Key    string
	Value  string
	Source string
}

// SplitParameter splits a protoc plugin parameter string into entries. A
// segment without "=" is a key with an empty value.
func SplitParameter(parameter string) []Entry {
	var entries []Entry
	for _, segment := range strings.Split(parameter, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		key, value, _ := strings.Cut(segment, "=")
		entries = append(entries, Entry{Key: key, Value: value, Source: SourceParameter})
	}
	return entries
}

// LoadConfig reads a TOML options file. Top level keys use the same names as
// the plugin parameter and an [M] table holds module overrides.
func LoadConfig(path string) ([]Entry, error) {
	var raw map[string]interface{}
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return configEntries(path, raw, meta)
}

// DecodeConfig is LoadConfig for content that is already in memory.
func DecodeConfig(source string, content string) ([]Entry, error) {
	var raw map[string]interface{}
	meta, err := toml.Decode(content, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", source, err)
	}
	return configEntries(source, raw, meta)
}

func configEntries(source string, raw map[string]interface{}, meta toml.MetaData) ([]Entry, error) {
	var entries []Entry
	// Keys preserves file order, which keeps conflict warnings stable.
	for _, key := range meta.Keys() {
		switch {
		case len(key) == 1 && key[0] != "M":
			value, err := configValue(raw[key[0]])
			if err != nil {
				return nil, fmt.Errorf("%s: %s: %w", source, key[0], err)
			}
			entries = append(entries, Entry{Key: key[0], Value: value, Source: source})
		case len(key) == 2 && key[0] == "M":
			table, _ := raw["M"].(map[string]interface{})
			value, err := configValue(table[key[1]])
			if err != nil {
				return nil, fmt.Errorf("%s: M.%s: %w", source, key[1], err)
			}
			entries = append(entries, Entry{Key: "M" + key[1], Value: value, Source: source})
		case len(key) == 1:
		default:
			return nil, fmt.Errorf("%s: unexpected nested key %q", source, key.String())
		}
	}
	return entries, nil
}

func configValue(v interface{}) (string, error) {
	switch tv := v.(type) {
	case string:
		return tv, nil
	case bool:
		return strconv.FormatBool(tv), nil
	case int64:
		return strconv.FormatInt(tv, 10), nil
	case []interface{}:
		parts := make([]string, 0, len(tv))
		for _, e := range tv {
			s, ok := e.(string)
			if !ok {
				return "", fmt.Errorf("array elements must be strings")
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, "_"), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// Parse resolves a plugin parameter string on top of the defaults.
func Parse(parameter string, r exc.Reporter) (Options, error) {
	return Resolve(r, SplitParameter(parameter))
}

// Resolve applies each group of entries in order on top of the defaults. A
// key assigned more than once keeps the last value and reports a conflict.
// Deprecated spellings are normalised with a warning. Invalid values are
// returned as exceptions.
func Resolve(r exc.Reporter, groups ...[]Entry) (Options, error) {
	s := &resolver{
		opts: Default(),
		r:    r,
		seen: make(map[string]Entry),
	}
	for _, group := range groups {
		for _, e := range group {
			if err := s.apply(e); err != nil {
				return Options{}, err
			}
		}
	}
	if err := s.imply(); err != nil {
		return Options{}, err
	}
	return s.opts, nil
}

type resolver struct {
	opts Options
	r    exc.Reporter
	seen map[string]Entry
}

func (s *resolver) report(e Entry, code string, format string, args ...interface{}) error {
	if err := s.r.Report(exc.Newf(exc.Location{URI: e.Source}, code, format, args...)); err != nil {
		return err
	}
	return nil
}

func (s *resolver) invalid(e Entry, expected string) error {
	return s.report(e, exc.CodeInvalidOption, "invalid value %q for option %s; expected %s", e.Value, e.Key, expected)
}

func (s *resolver) deprecated(e Entry, replacement string) error {
	return s.report(e, exc.CodeDeprecatedOption, "%s=%s is deprecated; use %s", e.Key, e.Value, replacement)
}

var boolOptions = map[string]func(o *Options) *bool{
	"esModuleInterop":             func(o *Options) *bool { return &o.EsModuleInterop },
	"lowerCaseServiceMethods":     func(o *Options) *bool { return &o.LowerCaseServiceMethods },
	"outputEncodeMethods":         func(o *Options) *bool { return &o.OutputEncodeMethods },
	"outputJsonMethods":           func(o *Options) *bool { return &o.OutputJSONMethods },
	"outputPartialMethods":        func(o *Options) *bool { return &o.OutputPartialMethods },
	"outputTypeRegistry":          func(o *Options) *bool { return &o.OutputTypeRegistry },
	"outputClientImpl":            func(o *Options) *bool { return &o.OutputClientImpl },
	"stringEnums":                 func(o *Options) *bool { return &o.StringEnums },
	"constEnums":                  func(o *Options) *bool { return &o.ConstEnums },
	"enumsAsLiterals":             func(o *Options) *bool { return &o.EnumsAsLiterals },
	"unrecognizedEnum":            func(o *Options) *bool { return &o.UnrecognizedEnum },
	"exportCommonSymbols":         func(o *Options) *bool { return &o.ExportCommonSymbols },
	"onlyTypes":                   func(o *Options) *bool { return &o.OnlyTypes },
	"emitImportedFiles":           func(o *Options) *bool { return &o.EmitImportedFiles },
	"useExactTypes":               func(o *Options) *bool { return &o.UseExactTypes },
	"unknownFields":               func(o *Options) *bool { return &o.UnknownFields },
	"usePrototypeForDefaults":     func(o *Options) *bool { return &o.UsePrototypeForDefaults },
	"useJsonWireFormat":           func(o *Options) *bool { return &o.UseJSONWireFormat },
	"initializeFieldsAsUndefined": func(o *Options) *bool { return &o.InitializeFieldsAsUndefined },
	"useMapType":                  func(o *Options) *bool { return &o.UseMapType },
	"useReadonlyTypes":            func(o *Options) *bool { return &o.UseReadonlyTypes },
	"useSnakeTypeName":            func(o *Options) *bool { return &o.UseSnakeTypeName },
	"unwrapWrappers":              func(o *Options) *bool { return &o.UnwrapWrappers },
}

var stringOptions = map[string]func(o *Options) *string{
	"fileSuffix":   func(o *Options) *string { return &o.FileSuffix },
	"importSuffix": func(o *Options) *string { return &o.ImportSuffix },
}

// Keys returns every option name accepted by Resolve, excluding M entries.
func Keys() []string {
	keys := []string{"snakeToCamel", "forceLong", "useOptionals", "useDate", "oneof", "env", "outputServices", "removeEnumPrefix"}
	for k := range boolOptions {
		keys = append(keys, k)
	}
	for k := range stringOptions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *resolver) apply(e Entry) error {
	if strings.HasPrefix(e.Key, "M") {
		return s.applyM(e)
	}
	if prev, ok := s.seen[e.Key]; ok {
		if err := s.report(e, exc.CodeConflictingOption, "%s=%s overrides %s=%s from %s", e.Key, e.Value, prev.Key, prev.Value, prev.Source); err != nil {
			return err
		}
	}
	s.seen[e.Key] = e

	if f, ok := boolOptions[e.Key]; ok {
		v, valid := parseBool(e.Value)
		if !valid {
			return s.invalid(e, "true or false")
		}
		*f(&s.opts) = v
		return nil
	}
	if f, ok := stringOptions[e.Key]; ok {
		*f(&s.opts) = e.Value
		return nil
	}

	switch e.Key {
	case "snakeToCamel":
		return s.applySnakeToCamel(e)
	case "forceLong":
		switch e.Value {
		case "true":
			s.opts.ForceLong = LongLong
			return s.deprecated(e, "forceLong=long")
		case "false":
			s.opts.ForceLong = LongNumber
			return s.deprecated(e, "forceLong=number")
		}
		v, ok := parseEnum(e.Value, LongNumber, LongLong, LongString)
		if !ok {
			return s.invalid(e, "number, long or string")
		}
		s.opts.ForceLong = v
	case "useOptionals":
		switch e.Value {
		case "true":
			s.opts.UseOptionals = OptionalsMessages
			return s.deprecated(e, "useOptionals=messages")
		case "false":
			s.opts.UseOptionals = OptionalsNone
			return s.deprecated(e, "useOptionals=none")
		}
		v, ok := parseEnum(e.Value, OptionalsNone, OptionalsMessages, OptionalsAll)
		if !ok {
			return s.invalid(e, "none, messages or all")
		}
		s.opts.UseOptionals = v
	case "useDate":
		switch e.Value {
		case "true":
			s.opts.UseDate = DateDate
			return s.deprecated(e, "useDate=date")
		case "false":
			s.opts.UseDate = DateTimestamp
			return s.deprecated(e, "useDate=timestamp")
		}
		v, ok := parseEnum(e.Value, DateDate, DateString, DateTimestamp)
		if !ok {
			return s.invalid(e, "date, string or timestamp")
		}
		s.opts.UseDate = v
	case "oneof":
		v, ok := parseEnum(e.Value, OneofProperties, OneofUnions)
		if !ok {
			return s.invalid(e, "properties or unions")
		}
		s.opts.Oneof = v
	case "env":
		v, ok := parseEnum(e.Value, EnvNode, EnvBrowser, EnvBoth)
		if !ok {
			return s.invalid(e, "node, browser or both")
		}
		s.opts.Env = v
	case "removeEnumPrefix":
		v, ok := parseEnum(e.Value, RemoveEnumPrefixNone, RemoveEnumPrefixMembers, RemoveEnumPrefixAll)
		if !ok {
			return s.invalid(e, "none, members or all")
		}
		s.opts.RemoveEnumPrefix = v
	case "outputServices":
		switch e.Value {
		case "false":
			s.opts.OutputServices = ServiceNone
			return s.deprecated(e, "outputServices=none")
		case "true":
			s.opts.OutputServices = ServiceDefault
			return s.deprecated(e, "outputServices=default")
		}
		v, ok := parseEnum(e.Value, ServiceDefault, ServiceNone)
		if !ok {
			return s.invalid(e, "default or none")
		}
		s.opts.OutputServices = v
	default:
		return s.report(e, exc.CodeUnknownOption, "unknown option %q ignored", e.Key)
	}
	return nil
}

func (s *resolver) applySnakeToCamel(e Entry) error {
	switch e.Value {
	case "true":
		s.opts.SnakeToCamel = []string{"keys", "json"}
		return s.deprecated(e, "snakeToCamel=keys_json")
	case "false":
		s.opts.SnakeToCamel = nil
		return s.deprecated(e, "snakeToCamel=")
	}
	var parts []string
	for _, part := range strings.Split(e.Value, "_") {
		switch part {
		case "":
		case "keys", "json":
			parts = append(parts, part)
		default:
			return s.invalid(e, "an underscore separated list of keys and json")
		}
	}
	s.opts.SnakeToCamel = parts
	return nil
}

func (s *resolver) applyM(e Entry) error {
	protoFile := e.Key[1:]
	if protoFile == "" {
		return s.invalid(e, "M<proto file>=<module>")
	}
	if prev, ok := s.opts.M[protoFile]; ok {
		if err := s.report(e, exc.CodeConflictingOption, "conflicting M options: %s=%s overrides M%s=%s", e.Key, e.Value, protoFile, prev); err != nil {
			return err
		}
	}
	if strings.HasSuffix(e.Value, ".ts") {
		if err := s.report(e, exc.CodeSuspiciousOption, "M option %s=%s ends in .ts; this is usually a mistake", e.Key, e.Value); err != nil {
			return err
		}
	}
	m := make(map[string]string, len(s.opts.M)+1)
	for k, v := range s.opts.M {
		m[k] = v
	}
	m[protoFile] = e.Value
	s.opts.M = m
	return nil
}

func (s *resolver) imply() error {
	o := &s.opts
	if o.OnlyTypes {
		o.OutputJSONMethods = false
		o.OutputEncodeMethods = false
		o.OutputClientImpl = false
	} else if !o.OutputJSONMethods && !o.OutputEncodeMethods && !o.OutputClientImpl {
		o.OnlyTypes = true
	}
	if o.UseJSONWireFormat {
		if !o.OnlyTypes {
			o.UseJSONWireFormat = false
			e := s.seen["useJsonWireFormat"]
			return s.report(e, exc.CodeSuspiciousOption, "useJsonWireFormat requires onlyTypes=true and was ignored")
		}
		o.StringEnums = true
		o.UseDate = DateString
	}
	return nil
}

func parseBool(v string) (bool, bool) {
	switch v {
	case "", "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

func parseEnum[T ~string](v string, allowed ...T) (T, bool) {
	for _, a := range allowed {
		if string(a) == v {
			return a, true
		}
	}
	var zero T
	return zero, false
}
