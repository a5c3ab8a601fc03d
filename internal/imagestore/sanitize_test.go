package imagestore

import (
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "fruits.jpg", want: "fruits.jpg"},
		{name: "spaces", in: "my  fridge photo.png", want: "my_fridge_photo.png"},
		{name: "unix traversal", in: "../../etc/passwd", want: "etc_passwd"},
		{name: "windows path", in: `C:\Users\me\basket.jpg`, want: "C_Users_me_basket.jpg"},
		{name: "accents folded", in: "tomate_séchée.jpg", want: "tomate_sechee.jpg"},
		{name: "unsafe characters", in: "a<b>c|d?.jpeg", want: "abcd.jpeg"},
		{name: "leading dots", in: "...hidden", want: "hidden"},
		{name: "only symbols", in: "???", want: "upload"},
		{name: "empty", in: "", want: "upload"},
		{name: "non latin", in: "яблоко.jpg", want: "jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
