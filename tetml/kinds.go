package tetml

// Kind is a recognized TETML element.
type Kind int

const (
	KindUnknown Kind = iota
	KindTET
	KindCreation
	KindDocument
	KindDocInfo
	KindAuthor
	KindCreationDate
	KindCreator
	KindKeywords
	KindModDate
	KindProducer
	KindSubject
	KindTitle
	KindTrapped
	KindCustom
	KindMetadata
	KindOptions
	KindException
	KindEncryption
	KindBookmarks
	KindAttachments
	KindDestinations
	KindSignatureFields
	KindActions
	KindJavaScripts
	KindXFA
	KindPages
	KindPage
	KindContent
	KindAnnotations
	KindFields
	KindGraphics
	KindResources
	KindFonts
	KindFont
	KindColorSpaces
	KindImages
	KindPatterns
	KindTable
	KindRow
	KindCell
	KindPara
	KindBox
	KindLine
	KindWord
	KindText
	KindGlyph
	KindPlacedImage
)

var kindByName = map[string]Kind{
	"TET":             KindTET,
	"Creation":        KindCreation,
	"Document":        KindDocument,
	"DocInfo":         KindDocInfo,
	"Author":          KindAuthor,
	"CreationDate":    KindCreationDate,
	"Creator":         KindCreator,
	"Keywords":        KindKeywords,
	"ModDate":         KindModDate,
	"Producer":        KindProducer,
	"Subject":         KindSubject,
	"Title":           KindTitle,
	"Trapped":         KindTrapped,
	"Custom":          KindCustom,
	"Metadata":        KindMetadata,
	"Options":         KindOptions,
	"Exception":       KindException,
	"Encryption":      KindEncryption,
	"Bookmarks":       KindBookmarks,
	"Attachments":     KindAttachments,
	"Destinations":    KindDestinations,
	"SignatureFields": KindSignatureFields,
	"Actions":         KindActions,
	"JavaScripts":     KindJavaScripts,
	"XFA":             KindXFA,
	"Pages":           KindPages,
	"Page":            KindPage,
	"Content":         KindContent,
	"Annotations":     KindAnnotations,
	"Fields":          KindFields,
	"Graphics":        KindGraphics,
	"Resources":       KindResources,
	"Fonts":           KindFonts,
	"Font":            KindFont,
	"ColorSpaces":     KindColorSpaces,
	"Images":          KindImages,
	"Patterns":        KindPatterns,
	"Table":           KindTable,
	"Row":             KindRow,
	"Cell":            KindCell,
	"Para":            KindPara,
	"Box":             KindBox,
	"Line":            KindLine,
	"Word":            KindWord,
	"Text":            KindText,
	"Glyph":           KindGlyph,
	"PlacedImage":     KindPlacedImage,
}

var kindNames = func() map[Kind]string {
	m := make(map[Kind]string, len(kindByName))
	for name, k := range kindByName {
		m[k] = name
	}
	return m
}()

// KindOf returns the kind of the element with the given local name.
func KindOf(name string) Kind {
	return kindByName[name]
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type action int

const (
	// descend visits the child and its subtree
	descend action = iota + 1
	// skip accepts the child without looking inside it
	skip
)

type edge struct {
	parent, child Kind
}

// edges lists every legal parent/child pair. A pair missing from the table
// is reported as an unknown child.
var edges = map[edge]action{
	{KindTET, KindCreation}:  skip,
	{KindTET, KindDocument}:  descend,
	{KindTET, KindException}: skip,

	{KindDocument, KindDocInfo}:         descend,
	{KindDocument, KindMetadata}:        skip,
	{KindDocument, KindOptions}:         skip,
	{KindDocument, KindException}:       skip,
	{KindDocument, KindEncryption}:      skip,
	{KindDocument, KindBookmarks}:       skip,
	{KindDocument, KindAttachments}:     skip,
	{KindDocument, KindDestinations}:    skip,
	{KindDocument, KindSignatureFields}: skip,
	{KindDocument, KindActions}:         skip,
	{KindDocument, KindJavaScripts}:     skip,
	{KindDocument, KindXFA}:             skip,
	{KindDocument, KindPages}:           descend,

	{KindDocInfo, KindAuthor}:       skip,
	{KindDocInfo, KindCreationDate}: skip,
	{KindDocInfo, KindCreator}:      skip,
	{KindDocInfo, KindKeywords}:     skip,
	{KindDocInfo, KindModDate}:      skip,
	{KindDocInfo, KindProducer}:     skip,
	{KindDocInfo, KindSubject}:      skip,
	{KindDocInfo, KindTitle}:        skip,
	{KindDocInfo, KindTrapped}:      skip,
	{KindDocInfo, KindCustom}:       skip,

	{KindPages, KindPage}:      descend,
	{KindPages, KindResources}: descend,
	{KindPages, KindException}: skip,

	{KindPage, KindOptions}:     skip,
	{KindPage, KindContent}:     descend,
	{KindPage, KindAnnotations}: skip,
	{KindPage, KindFields}:      skip,
	{KindPage, KindGraphics}:    skip,
	{KindPage, KindActions}:     skip,
	{KindPage, KindException}:   skip,

	{KindResources, KindFonts}:       descend,
	{KindResources, KindColorSpaces}: skip,
	{KindResources, KindImages}:      skip,
	{KindResources, KindPatterns}:    skip,
	{KindFonts, KindFont}:            skip,

	{KindContent, KindPara}:        descend,
	{KindContent, KindTable}:       descend,
	{KindContent, KindPlacedImage}: skip,

	{KindTable, KindRow}:         descend,
	{KindRow, KindCell}:          descend,
	{KindCell, KindPara}:         descend,
	{KindCell, KindPlacedImage}:  skip,
	{KindPara, KindBox}:          descend,
	{KindPara, KindPlacedImage}:  skip,
	{KindBox, KindLine}:          descend,
	{KindBox, KindPlacedImage}:   skip,
	{KindLine, KindWord}:         descend,
	{KindLine, KindText}:         skip,
	{KindLine, KindBox}:          skip,
	{KindWord, KindText}:         skip,
	{KindWord, KindBox}:          skip,
}
