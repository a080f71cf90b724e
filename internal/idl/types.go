package idl

import "google.golang.org/protobuf/types/descriptorpb"

const (
	FieldTypeDouble   = descriptorpb.FieldDescriptorProto_TYPE_DOUBLE
	FieldTypeFloat    = descriptorpb.FieldDescriptorProto_TYPE_FLOAT
	FieldTypeInt64    = descriptorpb.FieldDescriptorProto_TYPE_INT64
	FieldTypeUint64   = descriptorpb.FieldDescriptorProto_TYPE_UINT64
	FieldTypeInt32    = descriptorpb.FieldDescriptorProto_TYPE_INT32
	FieldTypeFixed64  = descriptorpb.FieldDescriptorProto_TYPE_FIXED64
	FieldTypeFixed32  = descriptorpb.FieldDescriptorProto_TYPE_FIXED32
	FieldTypeBool     = descriptorpb.FieldDescriptorProto_TYPE_BOOL
	FieldTypeString   = descriptorpb.FieldDescriptorProto_TYPE_STRING
	FieldTypeGroup    = descriptorpb.FieldDescriptorProto_TYPE_GROUP
	FieldTypeMessage  = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
	FieldTypeBytes    = descriptorpb.FieldDescriptorProto_TYPE_BYTES
	FieldTypeUint32   = descriptorpb.FieldDescriptorProto_TYPE_UINT32
	FieldTypeEnum     = descriptorpb.FieldDescriptorProto_TYPE_ENUM
	FieldTypeSfixed32 = descriptorpb.FieldDescriptorProto_TYPE_SFIXED32
	FieldTypeSfixed64 = descriptorpb.FieldDescriptorProto_TYPE_SFIXED64
	FieldTypeSint32   = descriptorpb.FieldDescriptorProto_TYPE_SINT32
	FieldTypeSint64   = descriptorpb.FieldDescriptorProto_TYPE_SINT64
)

// Well-known type names without the leading dot.
const (
	WKTTimestamp   = "google.protobuf.Timestamp"
	WKTDuration    = "google.protobuf.Duration"
	WKTStruct      = "google.protobuf.Struct"
	WKTValue       = "google.protobuf.Value"
	WKTListValue   = "google.protobuf.ListValue"
	WKTNullValue   = "google.protobuf.NullValue"
	WKTFieldMask   = "google.protobuf.FieldMask"
	WKTDoubleValue = "google.protobuf.DoubleValue"
	WKTFloatValue  = "google.protobuf.FloatValue"
	WKTInt64Value  = "google.protobuf.Int64Value"
	WKTUInt64Value = "google.protobuf.UInt64Value"
	WKTInt32Value  = "google.protobuf.Int32Value"
	WKTUInt32Value = "google.protobuf.UInt32Value"
	WKTBoolValue   = "google.protobuf.BoolValue"
	WKTStringValue = "google.protobuf.StringValue"
	WKTBytesValue  = "google.protobuf.BytesValue"
)

// WrapperScalar maps each boxed scalar wrapper to the scalar type of its
// single value field.
var WrapperScalar = map[string]FieldType{
	WKTDoubleValue: FieldTypeDouble,
	WKTFloatValue:  FieldTypeFloat,
	WKTInt64Value:  FieldTypeInt64,
	WKTUInt64Value: FieldTypeUint64,
	WKTInt32Value:  FieldTypeInt32,
	WKTUInt32Value: FieldTypeUint32,
	WKTBoolValue:   FieldTypeBool,
	WKTStringValue: FieldTypeString,
	WKTBytesValue:  FieldTypeBytes,
}
