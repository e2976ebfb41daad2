package fileid

import (
	"strings"
	"testing"
)

func TestDecodeRoundTrip(t *testing.T) {
	want := Handle{
		TypeTag:     TypeDocument,
		ShardID:     5,
		MediaID:     6039022687695177728,
		AccessToken: -6625675970409094941,
	}

	got, err := Decode(Encode(want))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got != want {
		t.Fatalf("Decode = %+v, want %+v", got, want)
	}
}

func TestDeriveKeyStableAcrossHandleVariants(t *testing.T) {
	h := Handle{
		TypeTag:     TypeVideo,
		ShardID:     2,
		MediaID:     1234567890123,
		AccessToken: 42,
	}

	variants := []string{
		Encode(h),
		Encode(h, WithVersion(2)),
		Encode(h, WithFileReference([]byte{0x01, 0x99, 0xaa, 0xbb, 0xcc})),
		Encode(h, WithFileReference(make([]byte, 300))),
		Encode(h) + "==",
	}

	keys := make(map[string]struct{})

	for _, v := range variants {
		key, err := DeriveKey(v)
		if err != nil {
			t.Fatalf("DeriveKey(%q): %v", v, err)
		}

		keys[key] = struct{}{}
	}

	if len(keys) != 1 {
		t.Fatalf("variants derived %d distinct keys, want 1", len(keys))
	}
}

func TestDeriveKeyInjective(t *testing.T) {
	base := Handle{TypeTag: TypeDocument, ShardID: 4, MediaID: 100, AccessToken: 200}

	mutations := []Handle{
		{TypeTag: TypeVideo, ShardID: 4, MediaID: 100, AccessToken: 200},
		{TypeTag: TypeDocument, ShardID: 5, MediaID: 100, AccessToken: 200},
		{TypeTag: TypeDocument, ShardID: 4, MediaID: 101, AccessToken: 200},
		{TypeTag: TypeDocument, ShardID: 4, MediaID: 100, AccessToken: 201},
	}

	for _, m := range mutations {
		if m.Key() == base.Key() {
			t.Errorf("%+v derived the same key as %+v", m, base)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		name   string
		handle string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"truncated", "AQ"},
		{"dangling rle escape", "AAACAA"},
		{"bad version", Encode(Handle{}, WithVersion(99))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.handle); err == nil {
				t.Fatalf("Decode(%q) succeeded, want error", tc.handle)
			}
		})
	}
}

func TestKeyIsURLSafe(t *testing.T) {
	key := Handle{TypeTag: TypeAudio, ShardID: 1, MediaID: -1, AccessToken: -1}.Key()

	if strings.ContainsAny(key, "+/=") {
		t.Fatalf("key %q contains non-url-safe characters", key)
	}
}

func TestMediaType(t *testing.T) {
	cases := map[int32]string{
		TypePhoto:     "photo",
		TypeVideo:     "video",
		TypeAudio:     "audio",
		TypeDocument:  "document",
		TypeAnimation: "animation",
		TypeVideoNote: "video_note",
		99:            "document",
	}

	for tag, want := range cases {
		if got := (Handle{TypeTag: tag}).MediaType(); got != want {
			t.Errorf("MediaType(%d) = %q, want %q", tag, got, want)
		}
	}
}
