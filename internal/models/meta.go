package models

// Meta is a key/value row, used for the schema version marker
type Meta struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

func (Meta) TableName() string {
	return "meta"
}

const SchemaVersionKey = "schema_version"
