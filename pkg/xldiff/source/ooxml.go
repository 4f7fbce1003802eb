package source

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"sort"
	"strings"

	"github.com/hmakino/xldiff-go/pkg/xldiff/models"
)

// ooxmlParts holds the workbook facets read straight from the OOXML package,
// covering what the excelize API has no getters for.
type ooxmlParts struct {
	workbookProtection models.WorkbookProtection
	sheetProtection    map[string]models.SheetProtection
	customProperties   map[string]string
	theme              string
	hasMacroProject    bool
	externalLinks      []string
	connections        map[string]string
}

const nsRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

type xmlWorkbook struct {
	Protection *struct {
		LockStructure string `xml:"lockStructure,attr"`
		LockWindows   string `xml:"lockWindows,attr"`
		Password      string `xml:"workbookPassword,attr"`
		HashValue     string `xml:"workbookHashValue,attr"`
		Algorithm     string `xml:"workbookAlgorithmName,attr"`
	} `xml:"workbookProtection"`
	Sheets []struct {
		Name string `xml:"name,attr"`
		RID  string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sheets>sheet"`
}

type xmlRelationships struct {
	Rels []struct {
		ID         string `xml:"Id,attr"`
		Type       string `xml:"Type,attr"`
		Target     string `xml:"Target,attr"`
		TargetMode string `xml:"TargetMode,attr"`
	} `xml:"Relationship"`
}

type xmlWorksheet struct {
	Protection *struct {
		Sheet     string `xml:"sheet,attr"`
		Objects   string `xml:"objects,attr"`
		Scenarios string `xml:"scenarios,attr"`
		Password  string `xml:"password,attr"`
		HashValue string `xml:"hashValue,attr"`
	} `xml:"sheetProtection"`
}

type xmlCustomProperties struct {
	Properties []struct {
		Name  string `xml:"name,attr"`
		Value struct {
			Text string `xml:",chardata"`
		} `xml:",any"`
	} `xml:"property"`
}

type xmlTheme struct {
	Name string `xml:"name,attr"`
}

type xmlConnections struct {
	Connections []struct {
		Name        string `xml:"name,attr"`
		Description string `xml:"description,attr"`
	} `xml:"connection"`
}

// readParts opens the workbook as a zip package and extracts protection
// flags, custom properties, theme identity, macro-project presence, external
// links and data connections.
func readParts(path string) (ooxmlParts, error) {
	parts := ooxmlParts{
		sheetProtection:  make(map[string]models.SheetProtection),
		customProperties: make(map[string]string),
		connections:      make(map[string]string),
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return parts, err
	}
	defer r.Close()

	parts.hasMacroProject = hasZipFile(&r.Reader, "xl/vbaProject.bin")

	var wb xmlWorkbook
	if data, err := readZipFile(&r.Reader, "xl/workbook.xml"); err == nil && data != nil {
		if err := xml.Unmarshal(data, &wb); err == nil && wb.Protection != nil {
			parts.workbookProtection = models.WorkbookProtection{
				StructureLocked: boolAttr(wb.Protection.LockStructure),
				WindowsLocked:   boolAttr(wb.Protection.LockWindows),
				HasPassword:     wb.Protection.Password != "" || wb.Protection.HashValue != "",
			}
		}
	}

	// Walk workbook.xml.rels to resolve each sheet's part path, then read
	// its sheetProtection element.
	var wbRels xmlRelationships
	if data, err := readZipFile(&r.Reader, "xl/_rels/workbook.xml.rels"); err == nil && data != nil {
		_ = xml.Unmarshal(data, &wbRels)
	}
	targets := make(map[string]string, len(wbRels.Rels))
	for _, rel := range wbRels.Rels {
		targets[rel.ID] = rel.Target
	}
	for _, sheet := range wb.Sheets {
		target, ok := targets[sheet.RID]
		if !ok {
			continue
		}
		data, err := readZipFile(&r.Reader, resolvePartPath(target))
		if err != nil || data == nil {
			continue
		}
		var ws xmlWorksheet
		if err := xml.Unmarshal(data, &ws); err != nil || ws.Protection == nil {
			continue
		}
		parts.sheetProtection[sheet.Name] = models.SheetProtection{
			ContentsLocked:  boolAttr(ws.Protection.Sheet),
			ObjectsLocked:   boolAttr(ws.Protection.Objects),
			ScenariosLocked: boolAttr(ws.Protection.Scenarios),
		}
	}

	if data, err := readZipFile(&r.Reader, "docProps/custom.xml"); err == nil && data != nil {
		var props xmlCustomProperties
		if err := xml.Unmarshal(data, &props); err == nil {
			for _, p := range props.Properties {
				parts.customProperties[p.Name] = p.Value.Text
			}
		}
	}

	if data, err := readZipFile(&r.Reader, "xl/theme/theme1.xml"); err == nil && data != nil {
		var theme xmlTheme
		if err := xml.Unmarshal(data, &theme); err == nil {
			parts.theme = theme.Name
		}
	}

	if data, err := readZipFile(&r.Reader, "xl/connections.xml"); err == nil && data != nil {
		var conns xmlConnections
		if err := xml.Unmarshal(data, &conns); err == nil {
			for _, c := range conns.Connections {
				parts.connections[c.Name] = c.Description
			}
		}
	}

	parts.externalLinks = readExternalLinks(&r.Reader)
	return parts, nil
}

// readExternalLinks collects the targets of all external link parts.
func readExternalLinks(r *zip.Reader) []string {
	var links []string
	for _, f := range r.File {
		if !strings.HasPrefix(f.Name, "xl/externalLinks/_rels/") || !strings.HasSuffix(f.Name, ".rels") {
			continue
		}
		data, err := readZipFile(r, f.Name)
		if err != nil || data == nil {
			continue
		}
		var rels xmlRelationships
		if err := xml.Unmarshal(data, &rels); err != nil {
			continue
		}
		for _, rel := range rels.Rels {
			if rel.TargetMode == "External" || strings.Contains(rel.Type, "externalLinkPath") {
				links = append(links, rel.Target)
			}
		}
	}
	sort.Strings(links)
	return links
}

// resolvePartPath normalizes a workbook relationship target to a package
// path (targets are relative to xl/).
func resolvePartPath(target string) string {
	target = strings.TrimPrefix(target, "/")
	if strings.HasPrefix(target, "xl/") {
		return target
	}
	return "xl/" + target
}

func boolAttr(v string) bool {
	return v == "1" || v == "true"
}

func hasZipFile(r *zip.Reader, name string) bool {
	for _, f := range r.File {
		if f.Name == name {
			return true
		}
	}
	return false
}

func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, nil
}
