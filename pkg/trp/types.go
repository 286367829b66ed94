package trp

// BlockType tags the kind of a block. Values match the wire vocabulary.
type BlockType string

const (
	BlockTypeWord             BlockType = "WORD"
	BlockTypeLine             BlockType = "LINE"
	BlockTypePage             BlockType = "PAGE"
	BlockTypeTable            BlockType = "TABLE"
	BlockTypeCell             BlockType = "CELL"
	BlockTypeMergedCell       BlockType = "MERGED_CELL"
	BlockTypeKeyValueSet      BlockType = "KEY_VALUE_SET"
	BlockTypeSelectionElement BlockType = "SELECTION_ELEMENT"
	BlockTypeQuery            BlockType = "QUERY"
	BlockTypeQueryResult      BlockType = "QUERY_RESULT"
)

// EntityType is a role tag carried in a block's EntityTypes.
type EntityType string

const (
	EntityTypeKey          EntityType = "KEY"
	EntityTypeValue        EntityType = "VALUE"
	EntityTypeColumnHeader EntityType = "COLUMN_HEADER"
	EntityTypeMergedCell   EntityType = "MERGED_CELL"
)

// RelationshipType is the label of an edge between blocks.
type RelationshipType string

const (
	RelationshipChild      RelationshipType = "CHILD"
	RelationshipValue      RelationshipType = "VALUE"
	RelationshipAnswer     RelationshipType = "ANSWER"
	RelationshipMergedCell RelationshipType = "MERGED_CELL"
)

// Selection states of a SELECTION_ELEMENT block.
const (
	SelectionSelected    = "SELECTED"
	SelectionNotSelected = "NOT_SELECTED"
)

// TextTypeVirtual marks words synthesized by this package.
const TextTypeVirtual = "VIRTUAL"

// Keys written into Block.Custom by this package.
const (
	CustomNextTable     = "next_table"
	CustomPreviousTable = "previous_table"
)

// Keys written by importers that know the source page size and language.
const (
	CustomLanguage   = "Language" // Detected language code, on pages and in Metadata.Custom
	CustomPageWidth  = "Width"    // Page width in CustomPageUnit
	CustomPageHeight = "Height"   // Page height in CustomPageUnit
	CustomPageUnit   = "Unit"     // Unit of the page size, usually "pixels"
)
