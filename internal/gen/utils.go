package gen

import (
	"fmt"

	"gopkg.microglot.org/tsproto.go/internal/idl"
	"gopkg.microglot.org/tsproto.go/internal/options"
)

// Helper names. Each is realised at most once per file and only when some
// generated code references it.
const (
	utilGlobalThis        = "globalThis"
	utilBytesFromBase64   = "bytesFromBase64"
	utilBase64FromBytes   = "base64FromBytes"
	utilLong              = "Long"
	utilNumberToLong      = "numberToLong"
	utilLongToString      = "longToString"
	utilLongToNumber      = "longToNumber"
	utilBuiltin           = "Builtin"
	utilDeepPartial       = "DeepPartial"
	utilExact             = "Exact"
	utilToTimestamp       = "toTimestamp"
	utilFromTimestamp     = "fromTimestamp"
	utilFromJSONTimestamp = "fromJsonTimestamp"
	utilIsObject          = "isObject"
	utilIsSet             = "isSet"
	utilRpc               = "Rpc"
)

func declareUtils(c *Context) {
	o := c.Options
	r := c.Utils

	r.Declare(utilGlobalThis, func() string {
		return `declare var self: any | undefined;
declare var window: any | undefined;
declare var global: any | undefined;
var globalThis: any = (() => {
  if (typeof globalThis !== "undefined") return globalThis;
  if (typeof self !== "undefined") return self;
  if (typeof window !== "undefined") return window;
  if (typeof global !== "undefined") return global;
  throw "Unable to locate global object";
})();`
	})

	r.Declare(utilBytesFromBase64, func() string {
		g := c.Use(utilGlobalThis)
		return fmt.Sprintf(`function bytesFromBase64(b64: string): Uint8Array {
  if (%[1]s.Buffer) {
    return Uint8Array.from(%[1]s.Buffer.from(b64, "base64"));
  } else {
    const bin = %[1]s.atob(b64);
    const arr = new Uint8Array(bin.length);
    for (let i = 0; i < bin.length; ++i) {
      arr[i] = bin.charCodeAt(i);
    }
    return arr;
  }
}`, g)
	})

	r.Declare(utilBase64FromBytes, func() string {
		g := c.Use(utilGlobalThis)
		return fmt.Sprintf(`function base64FromBytes(arr: Uint8Array): string {
  if (%[1]s.Buffer) {
    return %[1]s.Buffer.from(arr).toString("base64");
  } else {
    const bin: string[] = [];
    arr.forEach((byte) => {
      bin.push(String.fromCharCode(byte));
    });
    return %[1]s.btoa(bin.join(""));
  }
}`, g)
	})

	// Long is both an import and the snippet that installs long.js into the
	// protobufjs runtime. Referencing it emits both.
	r.Declare(utilLong, func() string {
		long := c.longImport()
		disclaimer := ""
		if !o.EsModuleInterop {
			disclaimer = "// If you get a compile-error about 'Constructor<Long> and ... have no overlap',\n" +
				"// add '--ts_proto_opt=esModuleInterop=true' as a flag when calling 'protoc'.\n"
		}
		return fmt.Sprintf(`%[1]sif (%[2]s !== %[3]s) {
  %[2]s = %[3]s as any;
  %[4]s();
}`, disclaimer, c.M0("util.Long"), long, c.M0("configure"))
	})

	r.Declare(utilNumberToLong, func() string {
		return fmt.Sprintf(`function numberToLong(number: number) {
  return %[1]s.fromNumber(number);
}`, c.Long())
	})

	r.Declare(utilLongToString, func() string {
		return fmt.Sprintf(`function longToString(long: %s) {
  return long.toString();
}`, c.Long())
	})

	r.Declare(utilLongToNumber, func() string {
		long := c.Long()
		g := c.Use(utilGlobalThis)
		return fmt.Sprintf(`function longToNumber(long: %s): number {
  if (long.gt(Number.MAX_SAFE_INTEGER)) {
    throw new %s.Error("Value is larger than Number.MAX_SAFE_INTEGER");
  }
  return long.toNumber();
}`, long, g)
	})

	r.Declare(utilBuiltin, func() string {
		return "type Builtin = Date | Function | Uint8Array | string | number | boolean | undefined;"
	})

	r.Declare(utilDeepPartial, func() string {
		builtin := c.Use(utilBuiltin)
		maybeLong := ""
		if o.LongIsLong() {
			maybeLong = fmt.Sprintf("\n  : T extends %[1]s ? string | number | %[1]s", c.Long())
		}
		oneofCase := ""
		if o.OneofUnions() {
			ro := maybeReadonly(o)
			oneofCase = fmt.Sprintf("\n  : T extends { %[1]s$case: string }\n  ? { [K in keyof Omit<T, \"$case\">]?: DeepPartial<T[K]> } & { %[1]s$case: T[\"$case\"] }", ro)
		}
		keys := "keyof T"
		if o.OutputTypeRegistry {
			keys = "Exclude<keyof T, \"$type\">"
		}
		return fmt.Sprintf(`%stype DeepPartial<T> = T extends %s ? T%s
  : T extends Array<infer U> ? Array<DeepPartial<U>>
  : T extends ReadonlyArray<infer U> ? ReadonlyArray<DeepPartial<U>>%s
  : T extends {} ? { [K in %s]?: DeepPartial<T[K]> }
  : Partial<T>;`, maybeExport(o), builtin, maybeLong, oneofCase, keys)
	})

	r.Declare(utilExact, func() string {
		builtin := c.Use(utilBuiltin)
		excludeType := ""
		if o.OutputTypeRegistry {
			excludeType = " | \"$type\""
		}
		return fmt.Sprintf(`type KeysOfUnion<T> = T extends T ? keyof T : never;
%stype Exact<P, I extends P> = P extends %s ? P
  : P & { [K in keyof P]: Exact<P[K], I[K]> } & { [K in Exclude<keyof I, KeysOfUnion<P>%s>]: never };`,
			maybeExport(o), builtin, excludeType)
	})

	r.Declare(utilToTimestamp, func() string {
		timestamp := c.TypeName(idl.WKTTimestamp)
		seconds := "date.getTime() / 1_000"
		switch o.ForceLong {
		case options.LongLong:
			seconds = c.Use(utilNumberToLong) + "(date.getTime() / 1_000)"
		case options.LongString:
			seconds = "Math.trunc(date.getTime() / 1_000).toString()"
		}
		typeField := ""
		if o.OutputTypeRegistry {
			typeField = "$type: \"google.protobuf.Timestamp\", "
		}
		if o.UseDate == options.DateString {
			return fmt.Sprintf(`function toTimestamp(dateStr: string): %s {
  const date = new Date(dateStr);
  const seconds = %s;
  const nanos = (date.getTime() %% 1_000) * 1_000_000;
  return { %sseconds, nanos };
}`, timestamp, seconds, typeField)
		}
		return fmt.Sprintf(`function toTimestamp(date: Date): %s {
  const seconds = %s;
  const nanos = (date.getTime() %% 1_000) * 1_000_000;
  return { %sseconds, nanos };
}`, timestamp, seconds, typeField)
	})

	r.Declare(utilFromTimestamp, func() string {
		timestamp := c.TypeName(idl.WKTTimestamp)
		toNumber := "t.seconds"
		switch o.ForceLong {
		case options.LongLong:
			toNumber = "t.seconds.toNumber()"
		case options.LongString:
			toNumber = "Number(t.seconds)"
		}
		if o.UseDate == options.DateString {
			return fmt.Sprintf(`function fromTimestamp(t: %s): string {
  let millis = %s * 1_000;
  millis += t.nanos / 1_000_000;
  return new Date(millis).toISOString();
}`, timestamp, toNumber)
		}
		return fmt.Sprintf(`function fromTimestamp(t: %s): Date {
  let millis = %s * 1_000;
  millis += t.nanos / 1_000_000;
  return new Date(millis);
}`, timestamp, toNumber)
	})

	r.Declare(utilFromJSONTimestamp, func() string {
		timestamp := c.TypeName(idl.WKTTimestamp)
		if o.UseDate == options.DateDate {
			return fmt.Sprintf(`function fromJsonTimestamp(o: any): Date {
  if (o instanceof Date) {
    return o;
  } else if (typeof o === "string") {
    return new Date(o);
  } else {
    return %s(%s.fromJSON(o));
  }
}`, c.Use(utilFromTimestamp), timestamp)
		}
		to := c.Use(utilToTimestamp)
		return fmt.Sprintf(`function fromJsonTimestamp(o: any): %[1]s {
  if (o instanceof Date) {
    return %[2]s(o);
  } else if (typeof o === "string") {
    return %[2]s(new Date(o));
  } else {
    return %[1]s.fromJSON(o);
  }
}`, timestamp, to)
	})

	r.Declare(utilIsObject, func() string {
		return `function isObject(value: any): boolean {
  return typeof value === "object" && value !== null;
}`
	})

	r.Declare(utilIsSet, func() string {
		return `function isSet(value: any): boolean {
  return value !== null && value !== undefined;
}`
	})

	r.Declare(utilRpc, func() string {
		return rpcInterface(c)
	})

	for _, name := range r.Names() {
		// Long is an import binding, not a declaration.
		if name != utilLong {
			c.Imports.Define(name)
		}
	}
	c.Imports.Define("KeysOfUnion")
}

func maybeExport(o options.Options) string {
	if o.ExportCommonSymbols {
		return "export "
	}
	return ""
}
