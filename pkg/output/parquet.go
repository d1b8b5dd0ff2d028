package output

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
)

// storeItemRow is the Parquet schema for the final artifact; column
// names match the CSV header.
type storeItemRow struct {
	Store string `parquet:"STORE"`
	Item  string `parquet:"ITEM"`
}

// parquetRowBuffer bounds how many cross-product rows are staged
// before handing them to the writer.
const parquetRowBuffer = 4096

func writeResultParquet(path string, stores, items []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create result file: %w", err)
	}

	w := parquet.NewGenericWriter[storeItemRow](f)
	buf := make([]storeItemRow, 0, parquetRowBuffer)

	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("write parquet rows: %w", err)
		}
		buf = buf[:0]
		return nil
	}

	for _, store := range stores {
		for _, item := range items {
			buf = append(buf, storeItemRow{Store: store, Item: item})
			if len(buf) == parquetRowBuffer {
				if err := flush(); err != nil {
					f.Close()
					return err
				}
			}
		}
	}
	if err := flush(); err != nil {
		f.Close()
		return err
	}

	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close result file: %w", err)
	}
	return nil
}
