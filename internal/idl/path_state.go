// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package idl

// Field numbers used to build SourceCodeInfo paths.
const (
	PathFilePackage     int32 = 2
	PathFileMessageType int32 = 4
	PathFileEnumType    int32 = 5
	PathFileService     int32 = 6
	PathFileSyntax      int32 = 12

	PathMessageField      int32 = 2
	PathMessageNestedType int32 = 3
	PathMessageEnumType   int32 = 4
	PathMessageOneofDecl  int32 = 8

	PathEnumValue     int32 = 2
	PathServiceMethod int32 = 2
)

type PathState struct {
	// these keep track of the current "path" during conversion
	// Path is a highly specialized and compact "index" into a FileDescriptor, used
	// to associate optional SourceCodeInfo with specific elements of the FileDescriptor.
	path       []int32
	indexStack []int
}

func (p *PathState) PushFieldNumber(fieldNumber int32) {
	p.path = append(p.path, fieldNumber)
}

func (p *PathState) PopFieldNumber() {
	p.path = p.path[:len(p.path)-1]
}

func (p *PathState) PushIndex() {
	p.path = append(p.path, 0)
	p.indexStack = append(p.indexStack, len(p.path)-1)
}

func (p *PathState) PopIndex() {
	p.path = p.path[:len(p.path)-1]
	p.indexStack = p.indexStack[:len(p.indexStack)-1]
}

func (p *PathState) IncrementIndex() {
	if len(p.indexStack) > 0 {
		p.path[p.indexStack[len(p.indexStack)-1]] += 1
	}
}

func (p *PathState) CopyPath() []int32 {
	c := make([]int32, len(p.path))
	copy(c, p.path)
	return c
}

// ChildPath returns a new path extending parent by a repeated field number and
// element index.
func ChildPath(parent []int32, fieldNumber int32, index int) []int32 {
	c := make([]int32, len(parent), len(parent)+2)
	copy(c, parent)
	return append(c, fieldNumber, int32(index))
}
