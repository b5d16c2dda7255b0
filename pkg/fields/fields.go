// Package fields re-exports the field catalog model for public consumers.
package fields

import internalcatalog "github.com/LordMirex/mytypist-prototype/internal/catalog"

// FieldType re-exports the internal field type enumeration.
type FieldType = internalcatalog.FieldType

const (
	FieldTypeText   = internalcatalog.FieldTypeText
	FieldTypeDate   = internalcatalog.FieldTypeDate
	FieldTypeEmail  = internalcatalog.FieldTypeEmail
	FieldTypeNumber = internalcatalog.FieldTypeNumber
	FieldTypeURL    = internalcatalog.FieldTypeURL
	FieldTypeOption = internalcatalog.FieldTypeOption
)

// Casing re-exports the value casing enumeration.
type Casing = internalcatalog.Casing

const (
	CasingNone  = internalcatalog.CasingNone
	CasingUpper = internalcatalog.CasingUpper
	CasingLower = internalcatalog.CasingLower
	CasingTitle = internalcatalog.CasingTitle
)

type FieldDefinition = internalcatalog.FieldDefinition
type Catalog = internalcatalog.Catalog
type Group = internalcatalog.Group
type FieldView = internalcatalog.FieldView

// InstanceKey derives the internal key for the ordinal-th occurrence of a
// base name.
func InstanceKey(baseName string, ordinal int) string {
	return internalcatalog.InstanceKey(baseName, ordinal)
}

// BaseNameOf strips an instance suffix, if any.
func BaseNameOf(key string) string {
	return internalcatalog.BaseNameOf(key)
}
