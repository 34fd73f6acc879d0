package tracker

// Anchor is the measured document offset of the heading behind one TOC entry.
type Anchor struct {
	ID  string  `json:"id"`
	Top float64 `json:"top"`
}

// LayoutEvent carries the heading positions of a page, in TOC entry order,
// together with the scroll position at the time of measurement.
type LayoutEvent struct {
	Anchors []Anchor
	Y       float64
}

// ScrollEvent reports the page's vertical scroll position.
type ScrollEvent struct {
	Y float64
}

// ClickEvent reports a click on the TOC link at Index.
type ClickEvent struct {
	Index int
}

// Active identifies the highlighted TOC entry. Index is -1 when no entry is active.
type Active struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
}

// ScrollRequest asks the page to scroll to Top.
type ScrollRequest struct {
	Top    float64 `json:"top"`
	Smooth bool    `json:"smooth"`
}

// Sink receives the tracker's output. Calls are serialized.
type Sink interface {
	SetActive(Active)
	ScrollTo(ScrollRequest)
}
