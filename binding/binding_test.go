package binding

import (
	"reflect"
	"strings"
	"testing"
)

func TestInterpolate(t *testing.T) {
	fields := map[string]string{"title": "Un titre", "url": "https://example.com"}
	got := Interpolate("Titre : ${title}\nURL : ${ url }\n${missing}", fields)
	want := "Titre : Un titre\nURL : https://example.com\n${missing}"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestInterpolateFuncTransformsValuesOnly(t *testing.T) {
	fields := map[string]string{"title": "abc", "content": "${title}"}
	got := InterpolateFunc("T: ${title} / ${content}", fields, strings.ToUpper)
	// 字面文本不变，替换值不再展开
	if got != "T: ABC / ${TITLE}" {
		t.Fatalf("got %q", got)
	}
}

func TestInterpolateWithoutFields(t *testing.T) {
	if got := Interpolate("${title}", nil); got != "${title}" {
		t.Fatalf("got %q", got)
	}
}

func TestNames(t *testing.T) {
	got := Names("${title} ${ source } ${title}")
	if !reflect.DeepEqual(got, []string{"title", "source", "title"}) {
		t.Fatalf("got %q", got)
	}
}
