package retrieval

import (
	"testing"
)

func TestApplyKeywordBonus(t *testing.T) {
	tests := []struct {
		name      string
		items     []Candidate
		keyword   string
		bonus     float64
		wantOrder []string
		wantHits  map[string]bool
	}{
		{
			name: "keyword hit promotes candidate",
			items: []Candidate{
				{ChunkID: "a", Content: "图书馆开放时间为早八点", Distance: 0.30},
				{ChunkID: "b", Content: "学生宿舍管理规定如下", Distance: 0.50},
			},
			keyword:   "宿舍",
			bonus:     0.1,
			wantOrder: []string{"a", "b"},
			wantHits:  map[string]bool{"a": false, "b": true},
		},
		{
			name: "bonus flips close ranking",
			items: []Candidate{
				{ChunkID: "a", Content: "图书馆开放时间为早八点", Distance: 0.45},
				{ChunkID: "b", Content: "学生宿舍管理规定如下", Distance: 0.50},
			},
			keyword:   "宿舍",
			bonus:     0.1,
			wantOrder: []string{"b", "a"},
			wantHits:  map[string]bool{"a": false, "b": true},
		},
		{
			name: "empty keyword keeps order",
			items: []Candidate{
				{ChunkID: "a", Content: "第一条", Distance: 0.20},
				{ChunkID: "b", Content: "第二条", Distance: 0.10},
			},
			keyword:   "",
			bonus:     0.1,
			wantOrder: []string{"b", "a"},
			wantHits:  map[string]bool{"a": false, "b": false},
		},
		{
			name: "keyword match is case insensitive",
			items: []Candidate{
				{ChunkID: "a", Content: "Campus WIFI policy", Distance: 0.30},
			},
			keyword:   "wifi",
			bonus:     0.1,
			wantOrder: []string{"a"},
			wantHits:  map[string]bool{"a": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyKeywordBonus(tt.items, tt.keyword, tt.bonus)

			if len(got) != len(tt.wantOrder) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.wantOrder))
			}
			for i, id := range tt.wantOrder {
				if got[i].ChunkID != id {
					t.Errorf("position %d = %s, want %s", i, got[i].ChunkID, id)
				}
			}
			for _, c := range got {
				if c.HitKeyword != tt.wantHits[c.ChunkID] {
					t.Errorf("HitKeyword for %s = %v, want %v", c.ChunkID, c.HitKeyword, tt.wantHits[c.ChunkID])
				}
			}
		})
	}
}

func TestApplyKeywordBonusAdjustsDistance(t *testing.T) {
	items := []Candidate{
		{ChunkID: "a", Content: "学生宿舍管理规定", Distance: 0.50},
	}

	got := ApplyKeywordBonus(items, "宿舍", 0.1)

	if got[0].Distance != 0.4 {
		t.Errorf("Distance = %v, want 0.4", got[0].Distance)
	}
	// The input slice must not be mutated.
	if items[0].Distance != 0.50 || items[0].HitKeyword {
		t.Errorf("input mutated: %+v", items[0])
	}
}

func TestApplyKeywordBonusDeterministic(t *testing.T) {
	items := []Candidate{
		{ChunkID: "a", Content: "甲", Distance: 0.30},
		{ChunkID: "b", Content: "乙", Distance: 0.30},
		{ChunkID: "c", Content: "丙", Distance: 0.30},
	}

	first := ApplyKeywordBonus(items, "", 0.1)
	for i := 0; i < 10; i++ {
		again := ApplyKeywordBonus(items, "", 0.1)
		for j := range first {
			if first[j].ChunkID != again[j].ChunkID {
				t.Fatalf("run %d: order changed at %d: %s vs %s", i, j, first[j].ChunkID, again[j].ChunkID)
			}
		}
	}
}

func TestApplyKeywordBonusEmptyInput(t *testing.T) {
	got := ApplyKeywordBonus(nil, "宿舍", 0.1)
	if len(got) != 0 {
		t.Errorf("want empty result, got %d items", len(got))
	}
}
