package api

import (
	"strconv"
	"strings"
)

// Resource is the common envelope of every Apple Music object.
type Resource[A any] struct {
	ID            string                  `json:"id" validate:"required"`
	Type          string                  `json:"type" validate:"required"`
	Href          string                  `json:"href,omitempty"`
	Attributes    *A                      `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty" validate:"omitempty,dive"`
}

// ResourceRef is a resource identifier without attributes, as found in relationships.
type ResourceRef struct {
	ID   string `json:"id" validate:"required"`
	Type string `json:"type" validate:"required"`
	Href string `json:"href,omitempty"`
}

// Relationship is a related-resource collection.
type Relationship struct {
	Data []ResourceRef `json:"data" validate:"dive"`
	Href string        `json:"href,omitempty"`
	Next string        `json:"next,omitempty"`
}

// DataResponse is a paginated list of resources.
type DataResponse[T any] struct {
	Data []T    `json:"data" validate:"dive"`
	Href string `json:"href,omitempty"`
	Next string `json:"next,omitempty"`
	Meta *Meta  `json:"meta,omitempty"`
}

// Meta carries pagination totals.
type Meta struct {
	Total int `json:"total"`
}

// Artwork is an image template with {w} and {h} placeholders.
type Artwork struct {
	URL        string `json:"url" validate:"required"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	BgColor    string `json:"bgColor,omitempty"`
	TextColor1 string `json:"textColor1,omitempty"`
	TextColor2 string `json:"textColor2,omitempty"`
}

// URLForSize fills the template with concrete dimensions.
func (a Artwork) URLForSize(width, height int) string {
	return strings.NewReplacer(
		"{w}", strconv.Itoa(width),
		"{h}", strconv.Itoa(height),
	).Replace(a.URL)
}

// EditorialNotes holds Apple's descriptive copy.
type EditorialNotes struct {
	Short    string `json:"short,omitempty"`
	Standard string `json:"standard,omitempty"`
	Name     string `json:"name,omitempty"`
	Tagline  string `json:"tagline,omitempty"`
}

// PlayParams identify a playable item.
type PlayParams struct {
	ID        string `json:"id" validate:"required"`
	Kind      string `json:"kind" validate:"required"`
	IsLibrary bool   `json:"isLibrary,omitempty"`
	CatalogID string `json:"catalogId,omitempty"`
}

// Preview is an audio or video preview asset.
type Preview struct {
	URL string `json:"url" validate:"required"`
}

// SongAttributes describes a catalog or library song.
type SongAttributes struct {
	Name             string          `json:"name" validate:"required"`
	ArtistName       string          `json:"artistName"`
	AlbumName        string          `json:"albumName,omitempty"`
	ComposerName     string          `json:"composerName,omitempty"`
	Artwork          *Artwork        `json:"artwork,omitempty"`
	ContentRating    string          `json:"contentRating,omitempty"`
	DiscNumber       int             `json:"discNumber,omitempty"`
	TrackNumber      int             `json:"trackNumber,omitempty"`
	DurationInMillis int             `json:"durationInMillis,omitempty"`
	EditorialNotes   *EditorialNotes `json:"editorialNotes,omitempty"`
	GenreNames       []string        `json:"genreNames,omitempty"`
	HasLyrics        bool            `json:"hasLyrics,omitempty"`
	ISRC             string          `json:"isrc,omitempty"`
	PlayParams       *PlayParams     `json:"playParams,omitempty"`
	Previews         []Preview       `json:"previews,omitempty" validate:"dive"`
	ReleaseDate      string          `json:"releaseDate,omitempty"`
	URL              string          `json:"url,omitempty"`
	DateAdded        string          `json:"dateAdded,omitempty"`
}

// AlbumAttributes describes a catalog or library album.
type AlbumAttributes struct {
	Name           string          `json:"name" validate:"required"`
	ArtistName     string          `json:"artistName"`
	Artwork        *Artwork        `json:"artwork,omitempty"`
	ContentRating  string          `json:"contentRating,omitempty"`
	Copyright      string          `json:"copyright,omitempty"`
	EditorialNotes *EditorialNotes `json:"editorialNotes,omitempty"`
	GenreNames     []string        `json:"genreNames,omitempty"`
	IsCompilation  bool            `json:"isCompilation,omitempty"`
	IsComplete     bool            `json:"isComplete,omitempty"`
	IsSingle       bool            `json:"isSingle,omitempty"`
	RecordLabel    string          `json:"recordLabel,omitempty"`
	ReleaseDate    string          `json:"releaseDate,omitempty"`
	TrackCount     int             `json:"trackCount,omitempty"`
	UPC            string          `json:"upc,omitempty"`
	URL            string          `json:"url,omitempty"`
	PlayParams     *PlayParams     `json:"playParams,omitempty"`
	DateAdded      string          `json:"dateAdded,omitempty"`
}

// ArtistAttributes describes a catalog or library artist.
type ArtistAttributes struct {
	Name           string          `json:"name" validate:"required"`
	Artwork        *Artwork        `json:"artwork,omitempty"`
	EditorialNotes *EditorialNotes `json:"editorialNotes,omitempty"`
	GenreNames     []string        `json:"genreNames,omitempty"`
	URL            string          `json:"url,omitempty"`
	DateAdded      string          `json:"dateAdded,omitempty"`
}

// PlaylistAttributes describes a catalog or library playlist.
type PlaylistAttributes struct {
	Name             string          `json:"name" validate:"required"`
	CuratorName      string          `json:"curatorName,omitempty"`
	Description      *EditorialNotes `json:"description,omitempty"`
	LastModifiedDate string          `json:"lastModifiedDate,omitempty"`
	PlaylistType     string          `json:"playlistType,omitempty"`
	Artwork          *Artwork        `json:"artwork,omitempty"`
	PlayParams       *PlayParams     `json:"playParams,omitempty"`
	URL              string          `json:"url,omitempty"`
	CanEdit          bool            `json:"canEdit,omitempty"`
	HasCatalog       bool            `json:"hasCatalog,omitempty"`
	DateAdded        string          `json:"dateAdded,omitempty"`
}

// MusicVideoAttributes describes a music video.
type MusicVideoAttributes struct {
	Name             string      `json:"name" validate:"required"`
	ArtistName       string      `json:"artistName"`
	AlbumName        string      `json:"albumName,omitempty"`
	Artwork          *Artwork    `json:"artwork,omitempty"`
	DurationInMillis int         `json:"durationInMillis,omitempty"`
	GenreNames       []string    `json:"genreNames,omitempty"`
	Has4K            bool        `json:"has4K,omitempty"`
	HasHDR           bool        `json:"hasHDR,omitempty"`
	ISRC             string      `json:"isrc,omitempty"`
	PlayParams       *PlayParams `json:"playParams,omitempty"`
	Previews         []Preview   `json:"previews,omitempty" validate:"dive"`
	ReleaseDate      string      `json:"releaseDate,omitempty"`
	URL              string      `json:"url,omitempty"`
}

// StationAttributes describes a radio station.
type StationAttributes struct {
	Name             string          `json:"name" validate:"required"`
	Artwork          *Artwork        `json:"artwork,omitempty"`
	DurationInMillis int             `json:"durationInMillis,omitempty"`
	EditorialNotes   *EditorialNotes `json:"editorialNotes,omitempty"`
	EpisodeNumber    string          `json:"episodeNumber,omitempty"`
	IsLive           bool            `json:"isLive,omitempty"`
	MediaKind        string          `json:"mediaKind,omitempty"`
	URL              string          `json:"url,omitempty"`
}

// CuratorAttributes describes a curator or Apple curator.
type CuratorAttributes struct {
	Name           string          `json:"name" validate:"required"`
	Artwork        *Artwork        `json:"artwork,omitempty"`
	EditorialNotes *EditorialNotes `json:"editorialNotes,omitempty"`
	URL            string          `json:"url,omitempty"`
}

// StorefrontAttributes describes an Apple Music storefront.
type StorefrontAttributes struct {
	Name                  string   `json:"name" validate:"required"`
	DefaultLanguageTag    string   `json:"defaultLanguageTag"`
	SupportedLanguageTags []string `json:"supportedLanguageTags,omitempty"`
	ExplicitContentPolicy string   `json:"explicitContentPolicy,omitempty"`
}

// Resource aliases.
type (
	Song            = Resource[SongAttributes]
	Album           = Resource[AlbumAttributes]
	Artist          = Resource[ArtistAttributes]
	Playlist        = Resource[PlaylistAttributes]
	MusicVideo      = Resource[MusicVideoAttributes]
	Station         = Resource[StationAttributes]
	Curator         = Resource[CuratorAttributes]
	Storefront      = Resource[StorefrontAttributes]
	LibrarySong     = Resource[SongAttributes]
	LibraryAlbum    = Resource[AlbumAttributes]
	LibraryArtist   = Resource[ArtistAttributes]
	LibraryPlaylist = Resource[PlaylistAttributes]
)

// SearchResultData is one typed group of search results.
type SearchResultData[T any] struct {
	Data []T    `json:"data" validate:"dive"`
	Href string `json:"href,omitempty"`
	Next string `json:"next,omitempty"`
}

// SearchResults groups search hits by media type. Absent groups are nil.
type SearchResults struct {
	Songs         *SearchResultData[Song]       `json:"songs,omitempty"`
	Albums        *SearchResultData[Album]      `json:"albums,omitempty"`
	Artists       *SearchResultData[Artist]     `json:"artists,omitempty"`
	Playlists     *SearchResultData[Playlist]   `json:"playlists,omitempty"`
	MusicVideos   *SearchResultData[MusicVideo] `json:"music-videos,omitempty"`
	Stations      *SearchResultData[Station]    `json:"stations,omitempty"`
	Curators      *SearchResultData[Curator]    `json:"curators,omitempty"`
	AppleCurators *SearchResultData[Curator]    `json:"apple-curators,omitempty"`
}

// SearchResponse is the catalog search result.
type SearchResponse struct {
	Results SearchResults `json:"results"`
	Meta    *SearchMeta   `json:"meta,omitempty"`
}

// SearchMeta reports result ordering.
type SearchMeta struct {
	Results struct {
		Order    []string `json:"order,omitempty"`
		RawOrder []string `json:"rawOrder,omitempty"`
	} `json:"results"`
}

// SearchHintsResponse lists completion terms.
type SearchHintsResponse struct {
	Results struct {
		Terms []string `json:"terms"`
	} `json:"results"`
}

// SearchSuggestion is a single suggestion entry.
type SearchSuggestion struct {
	Kind    string `json:"kind" validate:"required"`
	Content *struct {
		DisplayTerm string `json:"displayTerm"`
		SearchTerm  string `json:"searchTerm"`
		Kind        string `json:"kind,omitempty"`
	} `json:"content,omitempty"`
	DisplayTerm string `json:"displayTerm,omitempty"`
	SearchTerm  string `json:"searchTerm,omitempty"`
}

// SearchSuggestionsResponse lists search suggestions.
type SearchSuggestionsResponse struct {
	Results struct {
		Suggestions []SearchSuggestion `json:"suggestions" validate:"dive"`
	} `json:"results"`
}
