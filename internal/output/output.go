// Package output converts collected snapshot data into renderable documents
// for the json and xml formats and builds the structured node trees the tree
// command reports.
package output

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/ADMhS/CodeContext/internal/types"
	"github.com/ADMhS/CodeContext/internal/utils"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	xmlHeader      = xml.Header
	xmlListElement = "results"
)

// BuildTreeNodes converts file entries into a display tree with one node per
// path segment. Sibling nodes are ordered byte-wise by name and directory
// nodes carry the accumulated size of their descendants. Entries sharing a
// root base name fold into a single top-level node.
func BuildTreeNodes(entries []types.FileEntry) []*types.TreeOutputNode {
	virtualRoot := &types.TreeOutputNode{Type: types.NodeTypeDirectory}
	for _, entry := range entries {
		insertEntryNode(virtualRoot, entry)
	}
	accumulateDirectorySizes(virtualRoot)
	sortChildNodes(virtualRoot)
	return virtualRoot.Children
}

func insertEntryNode(virtualRoot *types.TreeOutputNode, entry types.FileEntry) {
	var segments []string
	for _, segment := range strings.Split(entry.RelativePath, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	currentNode := virtualRoot
	segmentPath := ""
	for segmentIndex, segment := range segments {
		if segmentPath == "" {
			segmentPath = segment
		} else {
			segmentPath = segmentPath + "/" + segment
		}
		childNode := findChildNode(currentNode, segment)
		if childNode == nil {
			childNode = &types.TreeOutputNode{
				Path: segmentPath,
				Name: segment,
				Type: types.NodeTypeDirectory,
			}
			currentNode.Children = append(currentNode.Children, childNode)
		}
		if segmentIndex == len(segments)-1 {
			decorateFileNode(childNode, entry)
		}
		currentNode = childNode
	}
}

func findChildNode(parent *types.TreeOutputNode, name string) *types.TreeOutputNode {
	for _, childNode := range parent.Children {
		if childNode.Name == name {
			return childNode
		}
	}
	return nil
}

func decorateFileNode(node *types.TreeOutputNode, entry types.FileEntry) {
	node.Type = types.NodeTypeFile
	node.SizeBytes = entry.SizeBytes
	node.Size = utils.FormatFileSize(entry.SizeBytes)
	node.LastModified = entry.LastModified
	if utils.IsFileBinary(entry.AbsolutePath) {
		node.Type = types.NodeTypeBinary
		node.MimeType = utils.DetectMimeType(entry.AbsolutePath)
	}
}

// accumulateDirectorySizes walks the tree bottom-up filling directory sizes
// from their descendants.
func accumulateDirectorySizes(node *types.TreeOutputNode) int64 {
	if node.Type != types.NodeTypeDirectory {
		return node.SizeBytes
	}
	var totalBytes int64
	for _, childNode := range node.Children {
		totalBytes += accumulateDirectorySizes(childNode)
	}
	node.SizeBytes = totalBytes
	node.Size = utils.FormatFileSize(totalBytes)
	return totalBytes
}

func sortChildNodes(node *types.TreeOutputNode) {
	sort.Slice(node.Children, func(firstIndex, secondIndex int) bool {
		return node.Children[firstIndex].Name < node.Children[secondIndex].Name
	})
	for _, childNode := range node.Children {
		sortChildNodes(childNode)
	}
}

// CountFiles returns the number of file and binary nodes under the given nodes.
func CountFiles(nodes []*types.TreeOutputNode) int {
	var total int
	for _, node := range nodes {
		if node == nil {
			continue
		}
		if node.Type == types.NodeTypeFile || node.Type == types.NodeTypeBinary {
			total++
		}
		total += CountFiles(node.Children)
	}
	return total
}

// RenderTreeJSON marshals tree nodes as indented JSON. A single root is
// rendered as an object, multiple roots as an array.
func RenderTreeJSON(nodes []*types.TreeOutputNode) (string, error) {
	if len(nodes) == 1 {
		encoded, jsonEncodeError := json.MarshalIndent(nodes[0], indentPrefix, indentSpacer)
		return string(encoded), jsonEncodeError
	}
	if nodes == nil {
		nodes = []*types.TreeOutputNode{}
	}
	encoded, jsonEncodeError := json.MarshalIndent(nodes, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// RenderTreeXML marshals tree nodes as an XML document. A single root becomes
// the document element, multiple roots are wrapped in a results element.
func RenderTreeXML(nodes []*types.TreeOutputNode) (string, error) {
	if len(nodes) == 1 {
		encoded, xmlMarshalError := xml.MarshalIndent(nodes[0], indentPrefix, indentSpacer)
		if xmlMarshalError != nil {
			return "", xmlMarshalError
		}
		return xmlHeader + string(encoded), nil
	}
	wrapper := struct {
		XMLName xml.Name                `xml:""`
		Nodes   []*types.TreeOutputNode `xml:"node"`
	}{XMLName: xml.Name{Local: xmlListElement}, Nodes: nodes}
	encoded, xmlMarshalError := xml.MarshalIndent(wrapper, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xmlHeader + string(encoded), nil
}

// RenderExportJSON marshals an export envelope as indented JSON.
func RenderExportJSON(exportOutput *types.ExportOutput) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(exportOutput, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// RenderExportXML marshals an export envelope as an XML document.
func RenderExportXML(exportOutput *types.ExportOutput) (string, error) {
	encoded, xmlMarshalError := xml.MarshalIndent(exportOutput, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xmlHeader + string(encoded), nil
}

// FormatSummaryLine renders the one-line run summary logged after an export.
func FormatSummaryLine(exportOutput *types.ExportOutput) string {
	if exportOutput == nil {
		exportOutput = &types.ExportOutput{}
	}
	label := "files"
	if exportOutput.MatchedFiles == 1 {
		label = "file"
	}
	size := exportOutput.TotalSize
	if size == "" {
		size = utils.FormatFileSize(0)
	}
	tokenSuffix := ""
	if exportOutput.Tokens > 0 {
		tokenSuffix = fmt.Sprintf(", %d tokens", exportOutput.Tokens)
	}
	modelSuffix := ""
	if exportOutput.Model != "" {
		modelSuffix = fmt.Sprintf(" (model: %s)", exportOutput.Model)
	}
	return fmt.Sprintf("Summary: %d %s of %d, %s%s%s",
		exportOutput.MatchedFiles, label, exportOutput.TotalFiles, size, tokenSuffix, modelSuffix)
}
