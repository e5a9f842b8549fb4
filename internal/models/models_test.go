package models

import "testing"

func TestMediaKind(t *testing.T) {
	tc := []struct {
		input string
		want  MediaKind
		ext   string
	}{
		{input: "vid", want: MediaVideo, ext: ".mp4"},
		{input: "Video", want: MediaVideo, ext: ".mp4"},
		{input: "mp3", want: MediaAudio, ext: ".mp3"},
		{input: "img", want: MediaImages, ext: ".jpg"},
		{input: " images ", want: MediaImages, ext: ".jpg"},
	}

	for _, tt := range tc {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMediaKind(tt.input)
			if err != nil {
				t.Fatalf("ParseMediaKind() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseMediaKind() = %v, want %v", got, tt.want)
			}
			if got.Extension() != tt.ext {
				t.Errorf("Extension() = %v, want %v", got.Extension(), tt.ext)
			}
		})
	}

	if _, err := ParseMediaKind("gif"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestResolvedMediaURLs(t *testing.T) {
	video := &ResolvedMedia{Kind: MediaVideo, VideoURL: "https://cdn/v.mp4", AudioURL: "ignored"}
	if got := video.URLs(); len(got) != 1 || got[0] != "https://cdn/v.mp4" {
		t.Errorf("URLs() = %v", got)
	}

	images := &ResolvedMedia{Kind: MediaImages, ImageURLs: []string{"a", "b", "c"}}
	if got := images.URLs(); len(got) != 3 || got[2] != "c" {
		t.Errorf("URLs() = %v", got)
	}

	var empty *ResolvedMedia
	if got := empty.URLs(); got != nil {
		t.Errorf("expected nil URLs for nil media, got %v", got)
	}
}
