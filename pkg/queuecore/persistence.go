package queuecore

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// bundlePath returns the on-disk path for a bundle's persistence file.
func bundlePath(dataDir, token string) string {
	return filepath.Join(dataDir, "Bundle"+token+".xml")
}

// bundleXML is the on-disk shape of a Bundle, encoded/decoded with
// encoding/xml rather than the teacher's GOB format: one readable file per
// bundle instead of one opaque blob for the whole client, so a corrupt
// bundle never takes down unrelated transfers.
type bundleXML struct {
	XMLName    xml.Name       `xml:"bundle"`
	Token      string         `xml:"token,attr"`
	Target     string         `xml:"target"`
	Size       int64          `xml:"size"`
	Added      int64          `xml:"added_unix"`
	BundleDate int64          `xml:"bundle_date_unix"`
	Priority   Priority       `xml:"priority"`
	Status     BundleStatus   `xml:"status"`
	SingleUser bool           `xml:"single_user"`
	Items      []queueItemXML `xml:"item"`
}

type queueItemXML struct {
	Target      string       `xml:"target"`
	TempTarget  string       `xml:"temp_target"`
	Size        int64        `xml:"size"`
	TTH         string       `xml:"tth"`
	Priority    Priority     `xml:"priority"`
	MaxSegments int          `xml:"max_segments"`
	Added       int64        `xml:"added_unix"`
	Flags       uint32       `xml:"flags"`
	Done        []segmentXML `xml:"done_range"`
}

type segmentXML struct {
	Start int64 `xml:"start,attr"`
	Size  int64 `xml:"size,attr"`
}

// SaveBundle writes b to its Bundle<token>.xml file, buffering the full
// encode before touching disk so a crash mid-write never leaves a
// truncated file, then renaming the temp file into place atomically.
func SaveBundle(dataDir string, b *Bundle) error {
	doc := toBundleXML(b)

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode bundle %s: %w", b.Token, err)
	}

	final := bundlePath(dataDir, b.Token)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), DefaultFileMode); err != nil {
		return fmt.Errorf("write bundle temp file: %w", err)
	}
	return os.Rename(tmp, final)
}

func toBundleXML(b *Bundle) bundleXML {
	b.mu.RLock()
	defer b.mu.RUnlock()
	doc := bundleXML{
		Token:      b.Token,
		Target:     b.Target,
		Size:       int64(b.Size),
		Added:      b.Added.Unix(),
		BundleDate: b.BundleDate.Unix(),
		Priority:   b.Priority,
		Status:     b.Status,
		SingleUser: b.SingleUser,
	}
	for _, qi := range b.queueItems {
		qi.mu.RLock()
		item := queueItemXML{
			Target:      qi.Target,
			TempTarget:  qi.TempTarget,
			Size:        int64(qi.Size),
			TTH:         qi.TTH,
			Priority:    qi.Priority,
			MaxSegments: qi.MaxSegments,
			Added:       qi.Added.Unix(),
			Flags:       uint32(qi.Flags),
		}
		for _, r := range qi.done.Ranges() {
			item.Done = append(item.Done, segmentXML{Start: r.Start, Size: r.Size})
		}
		doc.Items = append(doc.Items, item)
		qi.mu.RUnlock()
	}
	return doc
}

// LoadAllBundles reads every Bundle*.xml file under dataDir. A file that
// fails to parse is logged and deleted rather than allowed to wedge
// startup, matching the teacher's "corrupt userdata starts fresh" stance
// in manager.go, narrowed here to the one bundle it actually affects.
func LoadAllBundles(dataDir string) ([]*Bundle, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var bundles []*Bundle
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "Bundle") || !strings.HasSuffix(name, ".xml") {
			continue
		}
		path := filepath.Join(dataDir, name)
		b, err := loadBundleFile(path)
		if err != nil {
			log.Printf("queuecore: warning: %s is corrupt, discarding: %v", name, err)
			_ = os.Remove(path)
			continue
		}
		bundles = append(bundles, b)
	}
	return bundles, nil
}

// loadBundleFile decodes a single bundle file through a streaming
// xml.Decoder rather than reading it whole and calling Unmarshal, so a file
// large enough to list thousands of items is never held in memory as raw
// bytes alongside the decoded tree.
func loadBundleFile(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var doc bundleXML
	dec := xml.NewDecoder(f)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceCorrupt, err)
	}
	return fromBundleXML(doc), nil
}

func fromBundleXML(doc bundleXML) *Bundle {
	b := newBundle(doc.Target, doc.Priority)
	b.Token = doc.Token
	b.Status = doc.Status
	b.SingleUser = doc.SingleUser
	b.Size = ContentLength(doc.Size)

	for _, it := range doc.Items {
		qi := newQueueItem(it.Target, it.Size, it.TTH, it.Priority, it.MaxSegments)
		qi.TempTarget = it.TempTarget
		qi.Flags = QueueItemFlag(it.Flags)
		qi.bundle = b
		for _, r := range it.Done {
			qi.done.Add(r.Start, r.Size)
		}
		b.queueItems = append(b.queueItems, qi)
	}
	return b
}
