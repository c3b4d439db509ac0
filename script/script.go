package script

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/benz9527/xchain/lib/infra"
)

type ScriptErr string

const (
	ErrEmptyScript ScriptErr = "empty chain script"
	ErrUnknownOp   ScriptErr = "unknown chain op"
	ErrBadStep     ScriptErr = "invalid chain step"
)

func (err ScriptErr) Error() string {
	return string(err)
}

// Op names the chain operation a step replays.
type Op string

const (
	OpClear             Op = "clear"
	OpAddFront          Op = "addFront"
	OpAddLast           Op = "addLast"
	OpAdd               Op = "add"
	OpRemoveFirst       Op = "removeFirst"
	OpRemoveLast        Op = "removeLast"
	OpInsertAt          Op = "insertAt"
	OpRemoveAt          Op = "removeAt"
	OpContains          Op = "contains"
	OpIndexOf           Op = "indexOf"
	OpRemove            Op = "remove"
	OpReplaceData       Op = "replaceData"
	OpLen               Op = "len"
	OpIsEmpty           Op = "isEmpty"
	OpEveryNth          Op = "everyNth"
	OpInsertInterleaved Op = "insertInterleaved"
	OpInsertRange       Op = "insertRange"
	OpRemoveRange       Op = "removeRange"
	OpRender            Op = "render"
)

type stepField uint8

const (
	fieldValue stepField = 1 << iota
	fieldTarget
	fieldIndex
	fieldN
	fieldStart
	fieldCount
)

// opRequirements lists the fields each op must carry.
var opRequirements = map[Op]stepField{
	OpClear:             0,
	OpAddFront:          fieldValue,
	OpAddLast:           fieldValue,
	OpAdd:               fieldValue,
	OpRemoveFirst:       0,
	OpRemoveLast:        0,
	OpInsertAt:          fieldIndex | fieldValue,
	OpRemoveAt:          fieldIndex,
	OpContains:          fieldValue,
	OpIndexOf:           fieldValue,
	OpRemove:            fieldValue,
	OpReplaceData:       fieldTarget | fieldValue,
	OpLen:               0,
	OpIsEmpty:           0,
	OpEveryNth:          fieldN,
	OpInsertInterleaved: 0,
	OpInsertRange:       fieldIndex,
	OpRemoveRange:       fieldStart | fieldCount,
	OpRender:            0,
}

// Ops returns all the supported op names.
func Ops() []Op {
	return lo.Keys(opRequirements)
}

type Step struct {
	Op     Op       `yaml:"op"`
	Value  *string  `yaml:"value,omitempty"`
	Target *string  `yaml:"target,omitempty"`
	Index  *int64   `yaml:"index,omitempty"`
	N      *int64   `yaml:"n,omitempty"`
	Start  *int64   `yaml:"start,omitempty"`
	Count  *int64   `yaml:"count,omitempty"`
	Values []string `yaml:"values,omitempty"`
}

func (s Step) has(field stepField) bool {
	switch field {
	case fieldValue:
		return s.Value != nil
	case fieldTarget:
		return s.Target != nil
	case fieldIndex:
		return s.Index != nil
	case fieldN:
		return s.N != nil
	case fieldStart:
		return s.Start != nil
	case fieldCount:
		return s.Count != nil
	}
	return false
}

var fieldNames = map[stepField]string{
	fieldValue:  "value",
	fieldTarget: "target",
	fieldIndex:  "index",
	fieldN:      "n",
	fieldStart:  "start",
	fieldCount:  "count",
}

// Script is a chain of string elements and the steps replayed on it.
type Script struct {
	Name     string   `yaml:"name"`
	Elements []string `yaml:"elements,omitempty"`
	Steps    []Step   `yaml:"steps"`
}

func (s *Script) Validate() error {
	if s == nil || len(s.Steps) <= 0 {
		return infra.WrapErrorStack(ErrEmptyScript)
	}
	for i, step := range s.Steps {
		required, ok := opRequirements[step.Op]
		if !ok {
			return infra.WrapErrorStackWithMessage(ErrUnknownOp, fmt.Sprintf("step %d <%s>", i, step.Op))
		}
		for field := fieldValue; field <= fieldCount; field <<= 1 {
			if required&field != 0 && !step.has(field) {
				return infra.WrapErrorStackWithMessage(ErrBadStep,
					fmt.Sprintf("step %d <%s> requires %s", i, step.Op, fieldNames[field]))
			}
		}
	}
	return nil
}

// Load decodes a YAML script. Unknown fields are rejected.
func Load(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	s := &Script{}
	if err := dec.Decode(s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, infra.WrapErrorStack(ErrEmptyScript)
		}
		return nil, infra.WrapErrorStackWithMessage(err, "decode chain script")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func LoadFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "open chain script "+path)
	}
	defer func() {
		_ = f.Close()
	}()
	s, err := Load(f)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}
