package models

// TimestampLayout is the fixed format used for release and load timestamps
// persisted in the metadata table.
const TimestampLayout = "2006-01-02 15:04:05"

// Record represents one business entity in the Simples Nacional registry,
// keyed by the 8-character CNPJ base (the registry ID prefix).
type Record struct {
	CNPJBase             string `gorm:"column:cnpj_base;primaryKey;size:8" json:"cnpj_base"`
	SimplesOption        string `gorm:"column:opcao_simples;size:4" json:"simples_option"`
	SimplesOptionDate    string `gorm:"column:data_opcao_simples;size:16" json:"simples_option_date"`
	SimplesExclusionDate string `gorm:"column:data_exclusao_simples;size:16" json:"simples_exclusion_date"`
	MEIOption            string `gorm:"column:opcao_mei;size:4" json:"mei_option"`
	MEIOptionDate        string `gorm:"column:data_opcao_mei;size:16" json:"mei_option_date"`
	MEIExclusionDate     string `gorm:"column:data_exclusao_mei;size:16" json:"mei_exclusion_date"`
}

// TableName overrides the table name for the record table.
func (Record) TableName() string {
	return "simples"
}

// ReleaseMetadata is one row of the append-only metadata log. The most
// recently appended row describes the currently loaded dataset; older rows
// are retained for audit but never read back.
type ReleaseMetadata struct {
	// DataBase is the publisher-assigned release date of the loaded dataset,
	// formatted with TimestampLayout. Semantically a version, not wall-clock.
	DataBase string `gorm:"column:data_base;size:32" json:"data_base"`
	// DataDownload is the wall-clock time the local import completed.
	DataDownload string `gorm:"column:data_download;size:32" json:"data_download"`
}

// TableName overrides the table name for the metadata table.
func (ReleaseMetadata) TableName() string {
	return "metadata"
}

// FieldCount is the arity of a valid raw dataset row.
const FieldCount = 7

// DecodeRow interprets one raw 7-field dataset row as a Record. Date fields
// are normalized with FormatDate. Callers are responsible for arity checks.
func DecodeRow(fields []string) Record {
	return Record{
		CNPJBase:             fields[0],
		SimplesOption:        fields[1],
		SimplesOptionDate:    FormatDate(fields[2]),
		SimplesExclusionDate: FormatDate(fields[3]),
		MEIOption:            fields[4],
		MEIOptionDate:        FormatDate(fields[5]),
		MEIExclusionDate:     FormatDate(fields[6]),
	}
}

// FormatDate reformats an 8-digit YYYYMMDD value as DD/MM/YYYY. Any other
// value, including empty strings and already-formatted or corrupt dates, is
// passed through verbatim. No calendar validation is performed.
func FormatDate(s string) string {
	if len(s) != 8 {
		return s
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return s
		}
	}
	return s[6:8] + "/" + s[4:6] + "/" + s[0:4]
}
