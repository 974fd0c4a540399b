package store

import (
	"reflect"
	"testing"

	"github.com/existflow/controlcentre/internal/model"
)

func roster() []model.TeamMember {
	return []model.TeamMember{
		{ID: "m-al", Name: "Al"},
		{ID: "m-alex", Name: "Alex"},
		{ID: "m-sam", Name: "Sam Porter"},
	}
}

func TestDetectMentions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "nothing to see here", []string{}},
		{"simple", "ping @Al about the hull", []string{"m-al"}},
		{"longest wins", "escalate to @Alex immediately", []string{"m-alex"}},
		{"both names", "@Al and @Alex on deck", []string{"m-al", "m-alex"}},
		{"case insensitive", "ping @ALEX", []string{"m-alex"}},
		{"multi-word name", "paging @Sam Porter to engineering", []string{"m-sam"}},
		{"repeated mention", "@Al @Al @Al", []string{"m-al"}},
		{"empty text", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectMentions(tt.text, roster())
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DetectMentions(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectMentionsRosterOrder(t *testing.T) {
	got := DetectMentions("@Sam Porter then @Al", roster())
	want := []string{"m-al", "m-sam"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ids not in roster order: %v", got)
	}
}

func TestDetectMentionsEmptyRoster(t *testing.T) {
	if got := DetectMentions("@Al", nil); len(got) != 0 {
		t.Fatalf("mentions against empty roster: %v", got)
	}
}
