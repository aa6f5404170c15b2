// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the treaty-xml pipeline:
// the treaty records decoded from JSON, conversion status values, and the
// per-stage configuration structs.
package types

// ConversionStatus indicates the outcome of converting one treaty file.
type ConversionStatus string

const (
	ConversionNone    ConversionStatus = "none"
	ConversionDone    ConversionStatus = "converted"
	ConversionSkipped ConversionStatus = "skipped"
	ConversionFailed  ConversionStatus = "failed"
)

// Treaty holds the metadata, milestones, and HTML-bearing text of a
// bilateral treaty as delivered in the source JSON. Field names decode
// case-insensitively.
type Treaty struct {
	ID int `json:"id" yaml:"id"`

	HostCountryID   int    `json:"hostCountryId" yaml:"host_country_id"`
	HostCountryCode string `json:"hostCountryCode" yaml:"host_country_code"`
	HostCountryName string `json:"hostCountryName" yaml:"host_country_name"`

	PartnerCountryID   int    `json:"partnerCountryId" yaml:"partner_country_id"`
	PartnerCountryCode string `json:"partnerCountryCode" yaml:"partner_country_code"`
	PartnerCountryName string `json:"partnerCountryName" yaml:"partner_country_name"`

	// Title is the treaty's official name, before title casing.
	Title string `json:"title" yaml:"title"`

	// Status is the approval status (e.g. "In Force").
	Status string `json:"status" yaml:"status"`

	// SignatureDate and EntryIntoForce are free-text dates ("1 January 2020").
	SignatureDate  string `json:"signatureDate" yaml:"signature_date"`
	EntryIntoForce string `json:"entryIntoForce" yaml:"entry_into_force"`

	// EffectiveDate may hold several "date + note" phrases separated by
	// semicolons.
	EffectiveDate string `json:"effectiveDate" yaml:"effective_date"`

	// Initials is the HTML preamble.
	Initials string `json:"initials" yaml:"initials"`

	Articles  []Article  `json:"articles" yaml:"articles"`
	Protocols []Protocol `json:"protocols" yaml:"protocols"`
}

// Article is one article of a treaty. Number is a string because source
// data carries designators such as "1bis".
type Article struct {
	ID int `json:"id" yaml:"id"`

	ChapterNumber string `json:"chapterNumber" yaml:"chapter_number"`
	ChapterTitle  string `json:"chapterTitle" yaml:"chapter_title"`

	Number      string `json:"articleNumber" yaml:"article_number"`
	Title       string `json:"articleTitle" yaml:"article_title"`
	Description string `json:"articleDescription" yaml:"article_description"`

	TreatyDtaMetadataID     int    `json:"treatyDtaMetadataId" yaml:"treaty_dta_metadata_id"`
	TreatyArticleCategoryID int    `json:"treatyArticleCategoryId" yaml:"treaty_article_category_id"`
	CategoryName            string `json:"categoryName" yaml:"category_name"`
}

// Protocol is an amending protocol attached to a treaty. Protocols are
// carried through decoding but not rendered.
type Protocol struct {
	ID int `json:"id" yaml:"id"`

	Number      string `json:"protocolNumber" yaml:"protocol_number"`
	Title       string `json:"protocolTitle" yaml:"protocol_title"`
	Description string `json:"protocolDescription" yaml:"protocol_description"`

	TreatyDtaMetadataID int `json:"treatyDtaMetadataId" yaml:"treaty_dta_metadata_id"`
}
