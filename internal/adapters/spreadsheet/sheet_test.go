package spreadsheet_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/xuri/excelize/v2"

	spreadsheet "github.com/okian/rankdesk/internal/adapters/spreadsheet"
	. "github.com/smartystreets/goconvey/convey"
)

// buildWorkbook writes rows into the first column of the default sheet
// and returns the serialized workbook.
func buildWorkbook(cells []string) *bytes.Buffer {
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	for i, v := range cells {
		_ = wb.SetCellValue(sheet, fmt.Sprintf("A%d", i+1), v)
	}
	buf, _ := wb.WriteToBuffer()
	return buf
}

func TestRead(t *testing.T) {
	Convey("Given a standings workbook in the agreed layout", t, func() {
		buf := buildWorkbook([]string{
			"Spring Open",
			"O-015 LovelyToonZ-1F",
			"Toon [seed 3]",
			"Fah",
		})

		Convey("When the workbook is parsed", func() {
			st, err := spreadsheet.Read(buf)

			Convey("Then the event name comes from the first cell", func() {
				So(err, ShouldBeNil)
				So(st.EventName, ShouldEqual, "Spring Open")
			})

			Convey("And data rows map to 1-indexed placements", func() {
				So(err, ShouldBeNil)
				So(st.Entries, ShouldResemble, []spreadsheet.Entry{
					{Position: 1, RawName: "O-015 LovelyToonZ-1F"},
					{Position: 2, RawName: "Toon [seed 3]"},
					{Position: 3, RawName: "Fah"},
				})
			})
		})
	})

	Convey("Given a workbook with a blank row in the middle", t, func() {
		buf := buildWorkbook([]string{
			"Spring Open",
			"First",
			"",
			"Third",
		})

		Convey("When the workbook is parsed", func() {
			st, err := spreadsheet.Read(buf)

			Convey("Then the gap keeps its position and later rows do not shift", func() {
				So(err, ShouldBeNil)
				So(st.Entries, ShouldResemble, []spreadsheet.Entry{
					{Position: 1, RawName: "First"},
					{Position: 3, RawName: "Third"},
				})
			})
		})
	})

	Convey("Given a workbook whose names carry stray whitespace", t, func() {
		buf := buildWorkbook([]string{
			"  Spring Open  ",
			"  First  ",
		})

		st, err := spreadsheet.Read(buf)
		So(err, ShouldBeNil)
		So(st.EventName, ShouldEqual, "Spring Open")
		So(st.Entries[0].RawName, ShouldEqual, "First")
	})

	Convey("Given a workbook with an empty first cell", t, func() {
		buf := buildWorkbook([]string{"", "First"})

		_, err := spreadsheet.Read(buf)
		So(errors.Is(err, spreadsheet.ErrNoEventName), ShouldBeTrue)
	})

	Convey("Given a completely empty workbook", t, func() {
		wb := excelize.NewFile()
		buf, _ := wb.WriteToBuffer()

		_, err := spreadsheet.Read(buf)
		So(errors.Is(err, spreadsheet.ErrNoEventName), ShouldBeTrue)
	})

	Convey("Given a reader that is not a workbook at all", t, func() {
		_, err := spreadsheet.Read(bytes.NewReader([]byte("not a zip archive")))
		So(err, ShouldNotBeNil)
	})
}
