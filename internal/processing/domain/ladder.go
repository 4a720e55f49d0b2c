package domain

// Rung one entry of the fixed transcode quality ladder
type Rung struct {
	Name     string
	Width    int
	Height   int
	BitrateK int
	Suffix   string
}

// BufsizeK encoder buffer bound, conventionally twice the target bitrate
func (r Rung) BufsizeK() int {
	return r.BitrateK * 2
}

// Ladder the fixed ladder applied to every job, highest rung first
var Ladder = []Rung{
	{Name: "mp4_720p", Width: 1280, Height: 720, BitrateK: 2500, Suffix: "_720p"},
	{Name: "mp4_480p", Width: 854, Height: 480, BitrateK: 1000, Suffix: "_480p"},
}

const (
	// ThumbnailCount thumbnails attempted per job
	ThumbnailCount = 5
	// ThumbnailWidth scale target for extracted frames
	ThumbnailWidth = 640
	// ThumbnailHeight scale target for extracted frames
	ThumbnailHeight = 360
	// DerivedCacheControl cache policy stamped on every derived asset
	DerivedCacheControl = "public, max-age=3600"
)

// ThumbnailFractions relative positions of the candidate frames
var ThumbnailFractions = []float64{0.1, 0.3, 0.5, 0.7, 0.9}
