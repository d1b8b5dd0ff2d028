package output

import (
	"os"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/retailops/common-items/pkg/config"
	"github.com/retailops/common-items/pkg/intersect"
)

func TestWriteResultCSVBytes(t *testing.T) {
	sink := NewFileSink(t.TempDir(), config.FormatCSV)

	path, err := sink.WriteResult([]string{"X", "Y"}, []string{"1", "2"})
	if err != nil {
		t.Fatalf("WriteResult: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	want := "STORE,ITEM\nX,1\nX,2\nY,1\nY,2\n"
	if string(data) != want {
		t.Errorf("artifact = %q, want %q", data, want)
	}
}

func TestWriteResultCSVIdempotent(t *testing.T) {
	sink := NewFileSink(t.TempDir(), config.FormatCSV)
	stores := []string{"A", "B", "C"}
	items := []string{"10", "20"}

	path1, err := sink.WriteResult(stores, items)
	if err != nil {
		t.Fatalf("first write: %v", err)
	}
	first, err := os.ReadFile(path1)
	if err != nil {
		t.Fatalf("read first artifact: %v", err)
	}

	path2, err := sink.WriteResult(stores, items)
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	second, err := os.ReadFile(path2)
	if err != nil {
		t.Fatalf("read second artifact: %v", err)
	}

	if string(first) != string(second) {
		t.Error("re-running the writer produced different bytes")
	}
}

func TestWriteResultParquet(t *testing.T) {
	sink := NewFileSink(t.TempDir(), config.FormatParquet)

	path, err := sink.WriteResult([]string{"X", "Y"}, []string{"1", "2"})
	if err != nil {
		t.Fatalf("WriteResult: %v", err)
	}

	rows, err := parquet.ReadFile[storeItemRow](path)
	if err != nil {
		t.Fatalf("read parquet: %v", err)
	}
	want := []storeItemRow{
		{Store: "X", Item: "1"},
		{Store: "X", Item: "2"},
		{Store: "Y", Item: "1"},
		{Store: "Y", Item: "2"},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}

func TestWriteDiagnostics(t *testing.T) {
	sink := NewFileSink(t.TempDir(), config.FormatCSV)

	path, err := sink.WriteDiagnostics([]intersect.StoreCount{
		{Store: "A", Count: 4},
		{Store: "D", Count: 4},
		{Store: "B", Count: 3},
	})
	if err != nil {
		t.Fatalf("WriteDiagnostics: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read diagnostics: %v", err)
	}
	want := "STORE,ITEM_COUNT\nA,4\nD,4\nB,3\n"
	if string(data) != want {
		t.Errorf("diagnostics = %q, want %q", data, want)
	}
}
