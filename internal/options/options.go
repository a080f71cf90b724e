// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package options

import "strings"

type LongOption string

const (
	LongNumber LongOption = "number"
	LongLong   LongOption = "long"
	LongString LongOption = "string"
)

type DateOption string

const (
	DateDate      DateOption = "date"
	DateString    DateOption = "string"
	DateTimestamp DateOption = "timestamp"
)

type EnvOption string

const (
	EnvNode    EnvOption = "node"
	EnvBrowser EnvOption = "browser"
	EnvBoth    EnvOption = "both"
)

type OneofOption string

const (
	OneofProperties OneofOption = "properties"
	OneofUnions     OneofOption = "unions"
)

type OptionalsOption string

const (
	OptionalsNone     OptionalsOption = "none"
	OptionalsMessages OptionalsOption = "messages"
	OptionalsAll      OptionalsOption = "all"
)

type RemoveEnumPrefixOption string

const (
	RemoveEnumPrefixNone    RemoveEnumPrefixOption = "none"
	RemoveEnumPrefixMembers RemoveEnumPrefixOption = "members"
	RemoveEnumPrefixAll     RemoveEnumPrefixOption = "all"
)

type ServiceOption string

const (
	ServiceDefault ServiceOption = "default"
	ServiceNone    ServiceOption = "none"
)

// Options is the resolved configuration for one generation run. It is
// produced once by Parse and is never modified by the generator.
type Options struct {
	SnakeToCamel                []string
	ForceLong                   LongOption
	UseOptionals                OptionalsOption
	UseDate                     DateOption
	Oneof                       OneofOption
	EsModuleInterop             bool
	FileSuffix                  string
	ImportSuffix                string
	LowerCaseServiceMethods     bool
	OutputEncodeMethods         bool
	OutputJSONMethods           bool
	OutputPartialMethods        bool
	OutputTypeRegistry          bool
	OutputClientImpl            bool
	OutputServices              ServiceOption
	StringEnums                 bool
	ConstEnums                  bool
	EnumsAsLiterals             bool
	RemoveEnumPrefix            RemoveEnumPrefixOption
	UnrecognizedEnum            bool
	Env                         EnvOption
	ExportCommonSymbols         bool
	OnlyTypes                   bool
	EmitImportedFiles           bool
	UseExactTypes               bool
	UnknownFields               bool
	UsePrototypeForDefaults     bool
	UseJSONWireFormat           bool
	InitializeFieldsAsUndefined bool
	UseMapType                  bool
	UseReadonlyTypes            bool
	UseSnakeTypeName            bool
	UnwrapWrappers              bool
	// M maps a proto file name to the module its generated code is
	// imported from.
	M map[string]string
}

func Default() Options {
	return Options{
		SnakeToCamel:                []string{"json", "keys"},
		ForceLong:                   LongNumber,
		UseOptionals:                OptionalsNone,
		UseDate:                     DateDate,
		Oneof:                       OneofProperties,
		OutputEncodeMethods:         true,
		OutputJSONMethods:           true,
		OutputPartialMethods:        true,
		OutputClientImpl:            true,
		OutputServices:              ServiceDefault,
		RemoveEnumPrefix:            RemoveEnumPrefixNone,
		UnrecognizedEnum:            true,
		Env:                         EnvBoth,
		ExportCommonSymbols:         true,
		EmitImportedFiles:           true,
		UseExactTypes:               true,
		InitializeFieldsAsUndefined: true,
		UseSnakeTypeName:            true,
		UnwrapWrappers:              true,
		M:                           map[string]string{},
	}
}

// SnakeToCamelKeys reports whether property names are converted to camel
// case.
func (o Options) SnakeToCamelKeys() bool {
	return o.hasSnakeToCamel("keys")
}

// SnakeToCamelJSON reports whether JSON keys use the descriptor json_name.
func (o Options) SnakeToCamelJSON() bool {
	return o.hasSnakeToCamel("json")
}

func (o Options) hasSnakeToCamel(v string) bool {
	for _, s := range o.SnakeToCamel {
		if s == v {
			return true
		}
	}
	return false
}

// LongIsNumber and friends name the 64-bit representation checks that appear
// throughout the generator.
func (o Options) LongIsNumber() bool { return o.ForceLong == LongNumber }
func (o Options) LongIsLong() bool   { return o.ForceLong == LongLong }
func (o Options) LongIsString() bool { return o.ForceLong == LongString }

func (o Options) OneofUnions() bool { return o.Oneof == OneofUnions }

// ModuleFor returns the M override for a proto file, if any.
func (o Options) ModuleFor(protoFile string) (string, bool) {
	m, ok := o.M[protoFile]
	return m, ok
}

func (o Options) String() string {
	var b strings.Builder
	b.WriteString("forceLong=")
	b.WriteString(string(o.ForceLong))
	b.WriteString(",useDate=")
	b.WriteString(string(o.UseDate))
	b.WriteString(",oneof=")
	b.WriteString(string(o.Oneof))
	b.WriteString(",useOptionals=")
	b.WriteString(string(o.UseOptionals))
	b.WriteString(",snakeToCamel=")
	b.WriteString(strings.Join(o.SnakeToCamel, "_"))
	return b.String()
}
