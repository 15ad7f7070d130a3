// Package xbrltest writes a small NSE-style taxonomy archive and instance
// documents for tests.
//
// Archive layout:
//
//	<root>/nse/2024-03-31/in-capmkt/in-capmkt-ent-2024-03-31.xsd     entry point
//	<root>/nse/2024-03-31/core/in-capmkt-core-2024-03-31.xsd         concepts, imported as ../core/...
//	<root>/nse/2024-03-31/core/in-capmkt-core-2024-03-31_lab.xml     label linkbase
//	<root>/www.xbrl.org/2003/xbrl-instance-2003-12-31.xsd            offline mirror of the xbrli schema
package xbrltest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	// EntrySchema is the file name instances reference.
	EntrySchema = "in-capmkt-ent-2024-03-31.xsd"
	// CoreSchema declares the concepts.
	CoreSchema = "in-capmkt-core-2024-03-31.xsd"
	// LabelLinkbase holds the concept labels.
	LabelLinkbase = "in-capmkt-core-2024-03-31_lab.xml"
	// Namespace is the concept namespace.
	Namespace = "http://www.sebi.gov.in/xbrl/2024-03-31/in-capmkt"
	// MissingSchema is a reference no archive carries.
	MissingSchema = "fake-schema-2099-01-01.xsd"
)

// Archive describes a written fixture archive.
type Archive struct {
	Root  string
	Entry string
	Core  string
	Lab   string
}

// WriteArchive writes the fixture taxonomy into a fresh temp directory.
func WriteArchive(tb testing.TB) Archive {
	tb.Helper()
	root := tb.TempDir()
	a := Archive{
		Root:  root,
		Entry: filepath.Join(root, "nse", "2024-03-31", "in-capmkt", EntrySchema),
		Core:  filepath.Join(root, "nse", "2024-03-31", "core", CoreSchema),
		Lab:   filepath.Join(root, "nse", "2024-03-31", "core", LabelLinkbase),
	}
	WriteFile(tb, a.Entry, entrySchemaXML)
	WriteFile(tb, a.Core, coreSchemaXML)
	WriteFile(tb, a.Lab, labelLinkbaseXML)
	WriteFile(tb, filepath.Join(root, "www.xbrl.org", "2003", "xbrl-instance-2003-12-31.xsd"), xbrliSchemaXML)
	return a
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(tb testing.TB, path, content string) {
	tb.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
}

// WriteInstance writes an instance document referencing schemaRef into dir.
func WriteInstance(tb testing.TB, dir, name, schemaRef string) string {
	tb.Helper()
	p := filepath.Join(dir, name)
	WriteFile(tb, p, Instance(schemaRef))
	return p
}

// Instance returns a filing referencing schemaRef.
func Instance(schemaRef string) string {
	return fmt.Sprintf(instanceXML, schemaRef)
}

// ExpectedFacts is the label -> value map extracted from Instance.
func ExpectedFacts() map[string]any {
	return map[string]any{
		"Name of the company":             "Infosys Limited",
		"Trading symbol":                  "INFY",
		"Revenue from operations":         "379230000000",
		"in-capmkt:ProfitLossForPeriod":   "68230000000",
		"Date of end of reporting period": "2024-03-31",
		"Whether company is SME":          nil,
	}
}

// Snapshot hashes every file under root, keyed by relative path.
func Snapshot(tb testing.TB, root string) map[string]string {
	tb.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		sum := sha256.Sum256(data)
		out[filepath.ToSlash(rel)] = hex.EncodeToString(sum[:])
		return nil
	})
	if err != nil {
		tb.Fatalf("snapshot %s: %v", root, err)
	}
	return out
}

// AssertUnchanged fails the test if root differs from before.
func AssertUnchanged(tb testing.TB, root string, before map[string]string) {
	tb.Helper()
	after := Snapshot(tb, root)
	for name, sum := range before {
		got, ok := after[name]
		if !ok {
			tb.Errorf("archive file removed: %s", name)
			continue
		}
		if got != sum {
			tb.Errorf("archive file modified: %s", name)
		}
	}
	for name := range after {
		if _, ok := before[name]; !ok {
			tb.Errorf("archive gained file: %s", name)
		}
	}
}

const entrySchemaXML = `<?xml version="1.0" encoding="UTF-8"?>
<xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema"
            xmlns:link="http://www.xbrl.org/2003/linkbase"
            xmlns:xlink="http://www.w3.org/1999/xlink"
            targetNamespace="http://www.sebi.gov.in/xbrl/2024-03-31/in-capmkt-ent"
            elementFormDefault="qualified">
  <xsd:import namespace="http://www.sebi.gov.in/xbrl/2024-03-31/in-capmkt"
              schemaLocation="../core/in-capmkt-core-2024-03-31.xsd"/>
</xsd:schema>
`

const coreSchemaXML = `<?xml version="1.0" encoding="UTF-8"?>
<xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema"
            xmlns:xbrli="http://www.xbrl.org/2003/instance"
            xmlns:link="http://www.xbrl.org/2003/linkbase"
            xmlns:xlink="http://www.w3.org/1999/xlink"
            xmlns:in-capmkt="http://www.sebi.gov.in/xbrl/2024-03-31/in-capmkt"
            targetNamespace="http://www.sebi.gov.in/xbrl/2024-03-31/in-capmkt"
            elementFormDefault="qualified">
  <xsd:annotation>
    <xsd:appinfo>
      <link:linkbaseRef xlink:type="simple" xlink:href="in-capmkt-core-2024-03-31_lab.xml"
                        xlink:role="http://www.xbrl.org/2003/role/labelLinkbaseRef"
                        xlink:arcrole="http://www.w3.org/1999/xlink/properties/linkbase"/>
    </xsd:appinfo>
  </xsd:annotation>
  <xsd:import namespace="http://www.xbrl.org/2003/instance"
              schemaLocation="http://www.xbrl.org/2003/xbrl-instance-2003-12-31.xsd"/>
  <xsd:element id="in-capmkt_NameOfTheCompany" name="NameOfTheCompany" type="xbrli:stringItemType"
               substitutionGroup="xbrli:item" xbrli:periodType="duration" nillable="true"/>
  <xsd:element id="in-capmkt_Symbol" name="Symbol" type="xbrli:stringItemType"
               substitutionGroup="xbrli:item" xbrli:periodType="duration" nillable="true"/>
  <xsd:element id="in-capmkt_RevenueFromOperations" name="RevenueFromOperations" type="xbrli:monetaryItemType"
               substitutionGroup="xbrli:item" xbrli:periodType="duration" xbrli:balance="credit" nillable="true"/>
  <xsd:element id="in-capmkt_ProfitLossForPeriod" name="ProfitLossForPeriod" type="xbrli:monetaryItemType"
               substitutionGroup="xbrli:item" xbrli:periodType="duration" xbrli:balance="credit" nillable="true"/>
  <xsd:element id="in-capmkt_DateOfEndOfReportingPeriod" name="DateOfEndOfReportingPeriod" type="xbrli:dateItemType"
               substitutionGroup="xbrli:item" xbrli:periodType="duration" nillable="true"/>
  <xsd:element id="in-capmkt_WhetherCompanyIsSME" name="WhetherCompanyIsSME" type="xbrli:booleanItemType"
               substitutionGroup="xbrli:item" xbrli:periodType="duration" nillable="true"/>
</xsd:schema>
`

const labelLinkbaseXML = `<?xml version="1.0" encoding="UTF-8"?>
<link:linkbase xmlns:link="http://www.xbrl.org/2003/linkbase"
               xmlns:xlink="http://www.w3.org/1999/xlink"
               xmlns:xml="http://www.w3.org/XML/1998/namespace">
  <link:labelLink xlink:type="extended" xlink:role="http://www.xbrl.org/2003/role/link">
    <link:loc xlink:type="locator" xlink:href="in-capmkt-core-2024-03-31.xsd#in-capmkt_NameOfTheCompany" xlink:label="loc_Name"/>
    <link:label xlink:type="resource" xlink:label="lab_Name" xlink:role="http://www.xbrl.org/2003/role/label" xml:lang="en">Name of the company</link:label>
    <link:labelArc xlink:type="arc" xlink:arcrole="http://www.xbrl.org/2003/arcrole/concept-label" xlink:from="loc_Name" xlink:to="lab_Name"/>

    <link:loc xlink:type="locator" xlink:href="in-capmkt-core-2024-03-31.xsd#in-capmkt_Symbol" xlink:label="loc_Symbol"/>
    <link:label xlink:type="resource" xlink:label="lab_Symbol" xlink:role="http://www.xbrl.org/2003/role/verboseLabel" xml:lang="en">Trading symbol</link:label>
    <link:labelArc xlink:type="arc" xlink:arcrole="http://www.xbrl.org/2003/arcrole/concept-label" xlink:from="loc_Symbol" xlink:to="lab_Symbol"/>

    <link:loc xlink:type="locator" xlink:href="in-capmkt-core-2024-03-31.xsd#in-capmkt_RevenueFromOperations" xlink:label="loc_Revenue"/>
    <link:label xlink:type="resource" xlink:label="lab_Revenue" xlink:role="http://www.xbrl.org/2003/role/label" xml:lang="hi">प्रचालन से राजस्व</link:label>
    <link:label xlink:type="resource" xlink:label="lab_Revenue" xlink:role="http://www.xbrl.org/2003/role/label" xml:lang="en">Revenue from operations</link:label>
    <link:labelArc xlink:type="arc" xlink:arcrole="http://www.xbrl.org/2003/arcrole/concept-label" xlink:from="loc_Revenue" xlink:to="lab_Revenue"/>

    <link:loc xlink:type="locator" xlink:href="in-capmkt-core-2024-03-31.xsd#in-capmkt_DateOfEndOfReportingPeriod" xlink:label="loc_Date"/>
    <link:label xlink:type="resource" xlink:label="lab_Date" xlink:role="http://www.xbrl.org/2003/role/label" xml:lang="en-IN">Date of end of reporting period</link:label>
    <link:labelArc xlink:type="arc" xlink:arcrole="http://www.xbrl.org/2003/arcrole/concept-label" xlink:from="loc_Date" xlink:to="lab_Date"/>

    <link:loc xlink:type="locator" xlink:href="in-capmkt-core-2024-03-31.xsd#in-capmkt_WhetherCompanyIsSME" xlink:label="loc_SME"/>
    <link:label xlink:type="resource" xlink:label="lab_SME" xlink:role="http://www.xbrl.org/2003/role/label" xml:lang="en">Whether company is SME</link:label>
    <link:labelArc xlink:type="arc" xlink:arcrole="http://www.xbrl.org/2003/arcrole/concept-label" xlink:from="loc_SME" xlink:to="lab_SME"/>
  </link:labelLink>
</link:linkbase>
`

const xbrliSchemaXML = `<?xml version="1.0" encoding="UTF-8"?>
<schema xmlns="http://www.w3.org/2001/XMLSchema"
        xmlns:xbrli="http://www.xbrl.org/2003/instance"
        targetNamespace="http://www.xbrl.org/2003/instance"
        elementFormDefault="qualified">
  <element name="item" abstract="true"/>
  <element name="tuple" abstract="true"/>
</schema>
`

const instanceXML = `<?xml version="1.0" encoding="UTF-8"?>
<xbrli:xbrl xmlns:xbrli="http://www.xbrl.org/2003/instance"
            xmlns:link="http://www.xbrl.org/2003/linkbase"
            xmlns:xlink="http://www.w3.org/1999/xlink"
            xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
            xmlns:iso4217="http://www.xbrl.org/2003/iso4217"
            xmlns:in-capmkt="http://www.sebi.gov.in/xbrl/2024-03-31/in-capmkt">
  <link:schemaRef xlink:type="simple" xlink:href="%s"/>
  <xbrli:context id="OneD">
    <xbrli:entity>
      <xbrli:identifier scheme="http://www.nseindia.com">INFY</xbrli:identifier>
    </xbrli:entity>
    <xbrli:period>
      <xbrli:startDate>2023-04-01</xbrli:startDate>
      <xbrli:endDate>2024-03-31</xbrli:endDate>
    </xbrli:period>
  </xbrli:context>
  <xbrli:unit id="INR">
    <xbrli:measure>iso4217:INR</xbrli:measure>
  </xbrli:unit>
  <in-capmkt:NameOfTheCompany contextRef="OneD">Infosys Limited</in-capmkt:NameOfTheCompany>
  <in-capmkt:Symbol contextRef="OneD">INFY</in-capmkt:Symbol>
  <in-capmkt:RevenueFromOperations contextRef="OneD" unitRef="INR" decimals="-5">379230000000</in-capmkt:RevenueFromOperations>
  <in-capmkt:ProfitLossForPeriod contextRef="OneD" unitRef="INR" decimals="-5">68230000000</in-capmkt:ProfitLossForPeriod>
  <in-capmkt:DateOfEndOfReportingPeriod contextRef="OneD">2024-03-31</in-capmkt:DateOfEndOfReportingPeriod>
  <in-capmkt:WhetherCompanyIsSME contextRef="OneD" xsi:nil="true"/>
</xbrli:xbrl>
`
