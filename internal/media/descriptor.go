package media

// FieldKind is the semantic type of a variant metadata column.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldInteger
)

// Canonical variant field names, shared between the oracle JSON contract and
// the database column mapping.
const (
	FieldReleaseYear   = "releaseYear"
	FieldSeasonNumber  = "seasonNumber"
	FieldEpisodeNumber = "episodeNumber"
	FieldArtist        = "artist"
)

// Field describes one variant-specific metadata column.
type Field struct {
	Name string
	Kind FieldKind
}

// Descriptor carries the static configuration of one variant: where its
// files live inside a zone, which table holds its rows, which extensions
// the scanner accepts, and which metadata fields its schema declares beyond
// filePath and title.
type Descriptor struct {
	Type       Type
	Table      string
	Subdir     string
	Extensions []string
	Fields     []Field
}

var videoExtensions = []string{".mkv", ".mp4", ".avi", ".m4v", ".webm"}

var descriptors = map[Type]Descriptor{
	TypeMovie: {
		Type:       TypeMovie,
		Table:      "movies",
		Subdir:     "movies",
		Extensions: videoExtensions,
		Fields:     []Field{{Name: FieldReleaseYear, Kind: FieldInteger}},
	},
	TypeShow: {
		Type:       TypeShow,
		Table:      "shows",
		Subdir:     "shows",
		Extensions: videoExtensions,
		Fields: []Field{
			{Name: FieldSeasonNumber, Kind: FieldInteger},
			{Name: FieldEpisodeNumber, Kind: FieldInteger},
		},
	},
	TypeStandup: {
		Type:       TypeStandup,
		Table:      "standup",
		Subdir:     "standup",
		Extensions: videoExtensions,
		Fields: []Field{
			{Name: FieldArtist, Kind: FieldText},
			{Name: FieldReleaseYear, Kind: FieldInteger},
		},
	},
	TypeAnime: {
		Type:       TypeAnime,
		Table:      "anime",
		Subdir:     "anime",
		Extensions: videoExtensions,
		Fields: []Field{
			{Name: FieldSeasonNumber, Kind: FieldInteger},
			{Name: FieldEpisodeNumber, Kind: FieldInteger},
		},
	},
	TypeAnimation: {
		Type:       TypeAnimation,
		Table:      "animation",
		Subdir:     "animation",
		Extensions: videoExtensions,
		Fields: []Field{
			{Name: FieldSeasonNumber, Kind: FieldInteger},
			{Name: FieldEpisodeNumber, Kind: FieldInteger},
		},
	},
	TypeMisc: {
		Type:       TypeMisc,
		Table:      "misc",
		Subdir:     "misc",
		Extensions: videoExtensions,
		Fields:     nil,
	},
}

// DescriptorFor returns the static configuration of a variant. Unknown
// variants resolve to the misc descriptor, matching the factory fallback.
func DescriptorFor(t Type) Descriptor {
	if desc, ok := descriptors[t]; ok {
		return desc
	}
	return descriptors[TypeMisc]
}

// DescriptorForTable resolves a table name back to its variant descriptor.
func DescriptorForTable(table string) (Descriptor, bool) {
	for _, t := range Types() {
		if desc := descriptors[t]; desc.Table == table {
			return desc, true
		}
	}
	return Descriptor{}, false
}

// Tables lists every variant table name in fixed order.
func Tables() []string {
	types := Types()
	tables := make([]string, 0, len(types))
	for _, t := range types {
		tables = append(tables, descriptors[t].Table)
	}
	return tables
}
