package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Структурные ошибки: функция не попадает в программу
	StructInfo              Code = 1000
	StructMalformed         Code = 1001
	StructMissingArm        Code = 1002
	StructUndeclaredCapture Code = 1003
	StructDuplicateParam    Code = 1004
	StructReturnInValue     Code = 1005
	StructBadAssignTarget   Code = 1006
	StructBadFunctionName   Code = 1007
	StructRangeOutsideLoop  Code = 1008
	StructBadTemplate       Code = 1009
	StructDuplicateBinding  Code = 1010

	// Дубликаты (last-write-wins)
	DupInfo     Code = 2000
	DupBinding  Code = 2001
	DupFunction Code = 2002

	// Неразрешённые имена
	UnresInfo       Code = 3000
	UnresIdentifier Code = 3001
	UnresForwardRef Code = 3002

	// Ошибки I/O
	IOLoadFileError Code = 4001
	IODecodeError   Code = 4002
	IOCacheError    Code = 4003

	// Проверка сгенерированного кода
	RunSyntaxError    Code = 5001
	RunScriptError    Code = 5002
	RunTurnLimit      Code = 5003
	RunDialectSkipped Code = 5004

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:             "Unknown error",
		StructInfo:              "Structure information",
		StructMalformed:         "Malformed syntax tree",
		StructMissingArm:        "Pattern match arm missing",
		StructUndeclaredCapture: "Closure captures an undeclared name",
		StructDuplicateParam:    "Duplicate parameter name",
		StructReturnInValue:     "Return inside a value-producing match",
		StructBadAssignTarget:   "Invalid assignment target",
		StructBadFunctionName:   "Function name is not a valid identifier",
		StructRangeOutsideLoop:  "Range used outside a for loop",
		StructBadTemplate:       "Format template parts do not match arguments",
		StructDuplicateBinding:  "Binding redeclared while live",
		DupInfo:                 "Duplicate information",
		DupBinding:              "Binding redeclared while live",
		DupFunction:             "Function registered twice",
		UnresInfo:               "Resolution information",
		UnresIdentifier:         "Unresolved identifier",
		UnresForwardRef:         "Reference to a function registered later",
		IOLoadFileError:         "I/O load file error",
		IODecodeError:           "Malformed function document",
		IOCacheError:            "Fragment cache error",
		RunSyntaxError:          "Generated script does not parse",
		RunScriptError:          "Generated script failed",
		RunTurnLimit:            "Event loop turn limit reached",
		RunDialectSkipped:       "Syntax check skipped for dialect",
		ObsInfo:                 "Observability information",
		ObsTimings:              "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("STR%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("DUP%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("UNR%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("RUN%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	return codeDescription[c]
}

// Structural reports whether the code belongs to the StructuralError family.
func (c Code) Structural() bool {
	return c >= 1000 && c < 2000
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
