package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownValue  = errors.New("no enum member for value")
	ErrUnknownOption = errors.New("no enum member for option")
)

type EnumMember struct {
	Name  string
	Value int
}

// Enum is an ordered set of named values with lookup by value and by name.
// It is immutable once built.
type Enum struct {
	name    string
	members []EnumMember
	byValue map[int]EnumMember
	byName  map[string]EnumMember
}

func NewEnum(name string, members ...EnumMember) (*Enum, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("enum %s: no members", name)
	}
	e := &Enum{
		name:    name,
		members: make([]EnumMember, 0, len(members)),
		byValue: make(map[int]EnumMember, len(members)),
		byName:  make(map[string]EnumMember, len(members)),
	}
	for _, m := range members {
		if m.Name == "" {
			return nil, fmt.Errorf("enum %s: empty member name", name)
		}
		if _, ok := e.byName[m.Name]; ok {
			return nil, fmt.Errorf("enum %s: duplicated member name %s", name, m.Name)
		}
		if other, ok := e.byValue[m.Value]; ok {
			return nil, fmt.Errorf("enum %s: members %s and %s share value %d", name, other.Name, m.Name, m.Value)
		}
		e.members = append(e.members, m)
		e.byValue[m.Value] = m
		e.byName[m.Name] = m
	}
	return e, nil
}

func MustEnum(name string, members ...EnumMember) *Enum {
	e, err := NewEnum(name, members...)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Enum) Name() string {
	return e.name
}

// Names returns member names in declaration order.
func (e *Enum) Names() []string {
	names := make([]string, len(e.members))
	for i, m := range e.members {
		names[i] = m.Name
	}
	return names
}

func (e *Enum) Members() []EnumMember {
	return append([]EnumMember(nil), e.members...)
}

func (e *Enum) FromValue(value int) (EnumMember, bool) {
	m, ok := e.byValue[value]
	return m, ok
}

func (e *Enum) FromName(name string) (EnumMember, bool) {
	m, ok := e.byName[name]
	return m, ok
}
