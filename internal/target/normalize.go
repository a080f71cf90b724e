package target

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Normalize processes a given import or compile target and converts it into a
// standard form.
//
// The compiler allows targets to be any valid URI or file path. When the target
// is a file path or a file URI then we convert the paths to an absolute form.
// All non-file URIs are left as-is with the expectation that they will be
// handled by some other implementation
func Normalize(target string) string {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "" && u.Scheme != "file") {
		return target
	}
	if u.Scheme == "file" {
		target = u.Path
	}
	if !filepath.IsAbs(target) {
		return filepath.Join("/", target)
	}
	return target
}

// ModulePath returns the output module for a proto file name without any
// extension: foo/bar.proto with suffix ".pb" becomes foo/bar.pb.
func ModulePath(protoFile string, suffix string) string {
	return strings.TrimSuffix(protoFile, ".proto") + suffix
}

// OutputFile returns the generated TypeScript file name for a proto file.
func OutputFile(protoFile string, suffix string) string {
	return ModulePath(protoFile, suffix) + ".ts"
}

// RelativeImport returns the specifier used to import module "to" from
// within module "from". Both are slash separated module paths without an
// extension. The result always begins with "./" or "../".
func RelativeImport(from string, to string) string {
	fromDir := path.Dir(from)
	if fromDir == "." {
		return "./" + to
	}
	fromParts := strings.Split(fromDir, "/")
	toParts := strings.Split(to, "/")
	common := 0
	for common < len(fromParts) && common < len(toParts)-1 && fromParts[common] == toParts[common] {
		common = common + 1
	}
	ups := len(fromParts) - common
	rest := strings.Join(toParts[common:], "/")
	if ups == 0 {
		return "./" + rest
	}
	return strings.Repeat("../", ups) + rest
}
