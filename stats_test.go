package jsondiff

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCalcStats(t *testing.T) {
	aJSON := []byte(`{"a": 100,"foo": [1,2,3],"bar": false,"baz": {"a": {"b": 4,"c": false,"d": "apples-and-oranges"},"e": null,"g": "apples-and-oranges"}}`)
	bJSON := []byte(`{"a": 99,"foo": [1,2,3],"bar": false,"baz": {"a": {"b": 5,"c": false,"d": "apples-and-oranges"},"e": "thirty-thousand-something-dogecoin","f": {"a" : false, "b": true}}}`)

	var a, b map[string]interface{}
	if err := json.Unmarshal(aJSON, &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(bJSON, &b); err != nil {
		t.Fatal(err)
	}

	expect := &Stats{
		Left:     14,
		Right:    16,
		Added:    1,
		Modified: 3,
		Removed:  1,
	}
	stats := &Stats{}
	if _, err := Diff(a, b, OptionSetStats(stats)); err != nil {
		t.Fatal(err)
	}

	if expect.NodeChange() != stats.NodeChange() {
		t.Errorf("wrong node change. want: %d. got: %d", expect.NodeChange(), stats.NodeChange())
	}

	if diff := cmp.Diff(expect, stats); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestStatsUnchanged(t *testing.T) {
	stats := &Stats{}
	if _, err := Compare([]byte(`{"a":1,"b":[1,2]}`), []byte(`{"a":1,"b":[1,3]}`), OptionUnchanged(), OptionSetStats(stats)); err != nil {
		t.Fatal(err)
	}
	expect := &Stats{Left: 5, Right: 5, Modified: 1, Unchanged: 2}
	if diff := cmp.Diff(expect, stats); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
	if stats.Changes() != 1 {
		t.Errorf("unchanged entries should not count as changes, got %d", stats.Changes())
	}
}

func TestStatsJSON(t *testing.T) {
	data, err := json.Marshal(&Stats{Left: 3, Right: 4, Added: 1})
	if err != nil {
		t.Fatal(err)
	}
	expect := `{"leftNodes":3,"rightNodes":4,"added":1}`
	if string(data) != expect {
		t.Errorf("want: %s\ngot:  %s", expect, data)
	}
}
