package config

import (
	"encoding/json"
	"fmt"
)

const (
	changelogFieldNameConstant               = "changelog"
	accessFieldNameConstant                  = "access"
	commitFieldNameConstant                  = "commit"
	baseBranchFieldNameConstant              = "baseBranch"
	linkedFieldNameConstant                  = "linked"
	changelogGeneratorFieldNameConstant      = "generator"
	changelogFilenameFieldNameConstant       = "filename"
	changelogGlobalFilenameFieldNameConstant = "globalFilename"
	changelogTupleLengthConstant             = 2

	jsonNullLiteralConstant = "null"

	accessFieldShapeConstant     = "a string"
	commitFieldShapeConstant     = "a boolean"
	baseBranchFieldShapeConstant = "a string"
	linkedFieldShapeConstant     = "an array of arrays of package names"

	wrongFieldTypeMessageTemplateConstant = "%s must be %s, got %s"
)

// WrittenConfig is the raw configuration document shape. Nil pointer and
// zero-variant fields mean the author omitted the field and the canonical
// default applies. Decoding is lenient: a field of the wrong JSON type does
// not abort the document decode, it is recorded and reported alongside every
// other validation problem.
type WrittenConfig struct {
	Changelog  WrittenChangelog
	Access     *string
	Commit     *bool
	BaseBranch *string
	Linked     [][]string

	fieldProblems []string
}

// UnmarshalJSON decodes the document field by field, collecting type
// mismatches instead of failing, so validation can report every problem in
// one run. Only a structurally malformed document fails the decode.
func (writtenConfig *WrittenConfig) UnmarshalJSON(rawDocument []byte) error {
	var rawFields map[string]json.RawMessage
	if decodeError := json.Unmarshal(rawDocument, &rawFields); decodeError != nil {
		return decodeError
	}

	*writtenConfig = WrittenConfig{}

	if rawChangelog, changelogPresent := presentField(rawFields, changelogFieldNameConstant); changelogPresent {
		if decodeError := writtenConfig.Changelog.UnmarshalJSON(rawChangelog); decodeError != nil {
			return decodeError
		}
	}

	writtenConfig.Access = decodeDocumentField[string](rawFields, accessFieldNameConstant, accessFieldShapeConstant, &writtenConfig.fieldProblems)
	writtenConfig.Commit = decodeDocumentField[bool](rawFields, commitFieldNameConstant, commitFieldShapeConstant, &writtenConfig.fieldProblems)
	writtenConfig.BaseBranch = decodeDocumentField[string](rawFields, baseBranchFieldNameConstant, baseBranchFieldShapeConstant, &writtenConfig.fieldProblems)

	if linkedGroups := decodeDocumentField[[][]string](rawFields, linkedFieldNameConstant, linkedFieldShapeConstant, &writtenConfig.fieldProblems); linkedGroups != nil {
		writtenConfig.Linked = *linkedGroups
	}

	return nil
}

func presentField(rawFields map[string]json.RawMessage, fieldName string) (json.RawMessage, bool) {
	rawValue, fieldPresent := rawFields[fieldName]
	if !fieldPresent || string(rawValue) == jsonNullLiteralConstant {
		return nil, false
	}
	return rawValue, true
}

// decodeDocumentField decodes one optional field, recording a collected
// problem instead of failing when the author used the wrong JSON type.
func decodeDocumentField[FieldType any](rawFields map[string]json.RawMessage, fieldName string, expectedShape string, fieldProblems *[]string) *FieldType {
	rawValue, fieldPresent := presentField(rawFields, fieldName)
	if !fieldPresent {
		return nil
	}

	var decodedValue FieldType
	if decodeError := json.Unmarshal(rawValue, &decodedValue); decodeError != nil {
		*fieldProblems = append(*fieldProblems, fmt.Sprintf(wrongFieldTypeMessageTemplateConstant, fieldName, expectedShape, string(rawValue)))
		return nil
	}
	return &decodedValue
}

// changelogVariantKind tags which of the accepted changelog shapes a written
// document used.
type changelogVariantKind int

const (
	changelogVariantUnset changelogVariantKind = iota
	changelogVariantDisabled
	changelogVariantModulePath
	changelogVariantModuleWithOptions
	changelogVariantObject
	changelogVariantInvalid
)

// WrittenChangelog is the tagged variant behind the changelog field, which
// accepts false, a generator module path, a [modulePath, options] pair, or an
// object carrying a generator plus optional changelog filenames. Shapes
// outside that set decode into an invalid variant that surfaces during
// validation rather than aborting the document decode.
type WrittenChangelog struct {
	kind           changelogVariantKind
	modulePath     string
	options        any
	filename       string
	globalFilename string
	rawText        string
}

// DisabledWrittenChangelog builds the variant that turns changelog
// generation off.
func DisabledWrittenChangelog() WrittenChangelog {
	return WrittenChangelog{kind: changelogVariantDisabled}
}

// ModulePathWrittenChangelog builds the bare module-path variant.
func ModulePathWrittenChangelog(modulePath string) WrittenChangelog {
	return WrittenChangelog{kind: changelogVariantModulePath, modulePath: modulePath}
}

// ModuleWithOptionsWrittenChangelog builds the [modulePath, options] variant.
func ModuleWithOptionsWrittenChangelog(modulePath string, generatorOptions any) WrittenChangelog {
	return WrittenChangelog{kind: changelogVariantModuleWithOptions, modulePath: modulePath, options: generatorOptions}
}

// ObjectWrittenChangelog builds the object variant. Empty filenames fall
// back to the canonical defaults during parsing.
func ObjectWrittenChangelog(modulePath string, generatorOptions any, filename string, globalFilename string) WrittenChangelog {
	return WrittenChangelog{
		kind:           changelogVariantObject,
		modulePath:     modulePath,
		options:        generatorOptions,
		filename:       filename,
		globalFilename: globalFilename,
	}
}

// UnmarshalJSON decodes any JSON value into the variant, marking
// unrecognized shapes invalid instead of failing so validation can report
// every document problem at once.
func (writtenChangelog *WrittenChangelog) UnmarshalJSON(rawValue []byte) error {
	var decodedValue any
	if decodeError := json.Unmarshal(rawValue, &decodedValue); decodeError != nil {
		return decodeError
	}

	*writtenChangelog = classifyChangelogValue(decodedValue, string(rawValue))
	return nil
}

func classifyChangelogValue(decodedValue any, rawText string) WrittenChangelog {
	invalidVariant := WrittenChangelog{kind: changelogVariantInvalid, rawText: rawText}

	switch typedValue := decodedValue.(type) {
	case nil:
		return WrittenChangelog{}
	case bool:
		if typedValue {
			return invalidVariant
		}
		return DisabledWrittenChangelog()
	case string:
		return ModulePathWrittenChangelog(typedValue)
	case []any:
		modulePath, tupleValid := classifyChangelogTuple(typedValue)
		if !tupleValid {
			return invalidVariant
		}
		return ModuleWithOptionsWrittenChangelog(modulePath, typedValue[1])
	case map[string]any:
		objectVariant, objectValid := classifyChangelogObject(typedValue)
		if !objectValid {
			return invalidVariant
		}
		return objectVariant
	default:
		return invalidVariant
	}
}

func classifyChangelogTuple(tupleValue []any) (string, bool) {
	if len(tupleValue) != changelogTupleLengthConstant {
		return "", false
	}
	modulePath, firstElementIsString := tupleValue[0].(string)
	return modulePath, firstElementIsString
}

func classifyChangelogObject(objectValue map[string]any) (WrittenChangelog, bool) {
	generatorValue, generatorPresent := objectValue[changelogGeneratorFieldNameConstant]
	if !generatorPresent {
		return WrittenChangelog{}, false
	}

	var modulePath string
	var generatorOptions any
	switch typedGenerator := generatorValue.(type) {
	case string:
		modulePath = typedGenerator
	case []any:
		tupleModulePath, tupleValid := classifyChangelogTuple(typedGenerator)
		if !tupleValid {
			return WrittenChangelog{}, false
		}
		modulePath = tupleModulePath
		generatorOptions = typedGenerator[1]
	default:
		return WrittenChangelog{}, false
	}

	filename, filenameValid := optionalStringField(objectValue, changelogFilenameFieldNameConstant)
	globalFilename, globalFilenameValid := optionalStringField(objectValue, changelogGlobalFilenameFieldNameConstant)
	if !filenameValid || !globalFilenameValid {
		return WrittenChangelog{}, false
	}

	return ObjectWrittenChangelog(modulePath, generatorOptions, filename, globalFilename), true
}

func optionalStringField(objectValue map[string]any, fieldName string) (string, bool) {
	fieldValue, fieldPresent := objectValue[fieldName]
	if !fieldPresent {
		return "", true
	}
	stringValue, fieldIsString := fieldValue.(string)
	return stringValue, fieldIsString
}
