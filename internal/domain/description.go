package domain

import "strings"

// ImagePathPrefix marks a description line as an image asset reference.
const ImagePathPrefix = "/images/"

// SegmentKind distinguishes text paragraphs from image references.
type SegmentKind int

const (
	TextSegment SegmentKind = iota
	ImageSegment
)

// Segment is one rendered line of a question description.
type Segment struct {
	Kind SegmentKind `json:"kind"`
	// Value is the paragraph text, or the image path without its leading slash.
	Value string `json:"value"`
	// Alt is the image description, set only for image segments.
	Alt string `json:"alt,omitempty"`
}

// DescriptionSegments splits a description into text and image segments. Blank lines are dropped.
func DescriptionSegments(description, imageDescription string) []Segment {
	var out []Segment
	for _, line := range strings.Split(description, "\n") {
		if strings.HasPrefix(line, ImagePathPrefix) {
			alt := imageDescription
			if alt == "" {
				alt = "Quiz image"
			}
			out = append(out, Segment{Kind: ImageSegment, Value: strings.TrimPrefix(line, "/"), Alt: alt})
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, Segment{Kind: TextSegment, Value: line})
	}
	return out
}
