package ingest

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ignite/creative-analytics/internal/domain"
)

// Sheet names in the creative workbook.
const (
	SheetCreatives = "Creatives"
	SheetCopy      = "Copy"
	SheetLander    = "Lander"
)

// Catalog is the reference data read from the creative workbook.
type Catalog struct {
	Creatives []domain.Creative
	Copies    []domain.Copy
	Landers   []domain.Lander
}

// ReadCreativeSheet reads the Creatives, Copy and Lander sheets. A missing
// sheet yields no rows. Rows with an empty identifier are skipped.
func ReadCreativeSheet(path string) (*Catalog, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open creative sheet: %w", err)
	}
	defer f.Close()

	present := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		present[name] = true
	}

	readSheet := func(name string) ([]record, error) {
		if !present[name] {
			return nil, nil
		}
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		return toRecords(rows), nil
	}

	cat := &Catalog{}

	creatives, err := readSheet(SheetCreatives)
	if err != nil {
		return nil, err
	}
	for _, r := range creatives {
		c := creativeFromRecord(r)
		if c.CreativeID == "" {
			continue
		}
		c.Format = r.get("Format")
		c.DuplicateFlag = r.get("Duplicate?")
		cat.Creatives = append(cat.Creatives, c)
	}

	copies, err := readSheet(SheetCopy)
	if err != nil {
		return nil, err
	}
	for _, r := range copies {
		id := NormalizeID(r.get("Copy"))
		if id == "" {
			continue
		}
		cat.Copies = append(cat.Copies, domain.Copy{
			CopyID:        id,
			CreativeType:  r.get("Creative Type"),
			TargetTraffic: r.get("Target Traffic"),
			Hook:          r.get("Hook"),
			Angle:         r.get("Angle"),
			CreatedBy:     r.get("Created By"),
			DateCreated:   ParseSheetDate(r.get("Date Created")),
			DateLaunched:  ParseSheetDate(r.get("Date Launched")),
			LinkToAsset:   r.get("Link To Asset"),
			Status:        r.get("Status"),
		})
	}

	landers, err := readSheet(SheetLander)
	if err != nil {
		return nil, err
	}
	for _, r := range landers {
		id := NormalizeID(r.get("Funnel Identifier"))
		if id == "" {
			continue
		}
		cat.Landers = append(cat.Landers, domain.Lander{
			FunnelIdentifier: id,
			Lander:           r.get("Lander"),
			TrafficSource:    r.get("Traffic Source"),
			FrontendLink:     r.get("Frontend Link"),
			Notes:            r.get("Notes"),
		})
	}

	return cat, nil
}

// creativeFromRecord maps the columns shared by the sheet and the creative
// seed CSV. Format and duplicate flag are sheet-only.
func creativeFromRecord(r record) domain.Creative {
	return domain.Creative{
		CreativeID:     NormalizeID(r.get("Creatives")),
		Status:         r.get("Status"),
		CreativeType:   r.get("Creative Type"),
		TargetTraffic:  r.get("Target Traffic"),
		Type:           r.get("Type"),
		Style:          r.get("Style"),
		Angle:          r.get("Angle"),
		AwarenessLevel: r.get("Awareness level"),
		CreatedBy:      r.get("Created By"),
		DateCreated:    ParseSheetDate(r.get("Date Created")),
		DateLaunched:   ParseSheetDate(r.get("Date Launched")),
		LinkToAsset:    r.get("Link To Asset"),
		Winner:         r.get("Winner?"),
	}
}
