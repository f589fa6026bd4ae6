package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter runs the parser and every extractor over one document.
type gltfImporter interface {
	// Import loads a glTF/GLB file and extracts its skeleton, clips and triangles.
	//
	// Parameters:
	//   - path: the file path to the glTF or GLB file
	//
	// Returns:
	//   - *Asset: the imported asset
	//   - error: error if import fails
	Import(path string) (*Asset, error)

	// ImportReader is Import for a complete glTF JSON or GLB stream.
	//
	// Parameters:
	//   - r: the reader providing glTF/GLB data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - *Asset: the imported asset
	//   - error: error if import fails
	ImportReader(r io.Reader, isGLB bool) (*Asset, error)

	// ImportGround loads only the collision triangles of a file, skipping skins and animations.
	//
	// Parameters:
	//   - path: the file path to the glTF or GLB file
	//
	// Returns:
	//   - *Asset: the asset with Triangles filled in
	//   - error: error if import fails
	ImportGround(path string) (*Asset, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer.
//
// Returns:
//   - gltfImporter: the importer
func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(path string) (*Asset, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return imp.importFromParser(parser, path)
}

func (imp *gltfImporterImpl) ImportReader(r io.Reader, isGLB bool) (*Asset, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, isGLB); err != nil {
		return nil, fmt.Errorf("failed to parse from reader: %w", err)
	}
	return imp.importFromParser(parser, "")
}

func (imp *gltfImporterImpl) ImportGround(path string) (*Asset, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	rest, err := newGLTFSkeletonExtractor(parser).RestPose()
	if err != nil {
		return nil, fmt.Errorf("node hierarchy: %w", err)
	}
	triangles, err := newGLTFMeshExtractor(parser).ExtractTriangles(rest)
	if err != nil {
		return nil, fmt.Errorf("mesh extraction failed: %w", err)
	}

	return &Asset{
		Name:      gltfExtractAssetName(parser.Document(), path),
		Triangles: triangles,
	}, nil
}

// importFromParser performs a full import from a parser that has already loaded a document.
//
// Parameters:
//   - parser: the glTF parser that has already loaded a document
//   - fallbackPath: optional file path used as a fallback for naming
func (imp *gltfImporterImpl) importFromParser(parser gltfParser, fallbackPath string) (*Asset, error) {
	doc := parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("%w: no document after parsing", ErrInvalidGLTF)
	}

	skeleton, err := newGLTFSkeletonExtractor(parser).ExtractSkeleton()
	if err != nil {
		return nil, fmt.Errorf("skeleton extraction failed: %w", err)
	}
	clips, err := newGLTFAnimationExtractor(parser).ExtractAllAnimations()
	if err != nil {
		return nil, fmt.Errorf("animation extraction failed: %w", err)
	}
	triangles, err := newGLTFMeshExtractor(parser).ExtractTriangles(skeleton.RestPose())
	if err != nil {
		return nil, fmt.Errorf("mesh extraction failed: %w", err)
	}

	return &Asset{
		Name:      gltfExtractAssetName(doc, fallbackPath),
		Skeleton:  skeleton,
		Clips:     clips,
		Triangles: triangles,
	}, nil
}

// gltfExtractAssetName prefers the default scene's name, then the file name without its extension.
func gltfExtractAssetName(doc *gltfDocument, fallbackPath string) string {
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		if name := doc.Scenes[*doc.Scene].Name; name != "" {
			return name
		}
	}
	if fallbackPath != "" {
		base := filepath.Base(fallbackPath)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return "unnamed_asset"
}
