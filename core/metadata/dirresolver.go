package metadata

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pcodekit/pcodekit/core/typesys"
)

// on-disk shapes shared by the JSON loader and the CBOR snapshot

type parameterFile struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
	Out  bool   `json:"out,omitempty"`
}

type methodFile struct {
	Name       string          `json:"name"`
	Parameters []parameterFile `json:"parameters,omitempty"`
	Returns    string          `json:"returns,omitempty"`
	Visibility string          `json:"visibility,omitempty"`
}

type propertyFile struct {
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	ReadOnly   bool   `json:"readonly,omitempty"`
	Visibility string `json:"visibility,omitempty"`
}

type classFile struct {
	QualifiedName string         `json:"qualifiedName"`
	BaseClass     string         `json:"baseClass,omitempty"`
	Methods       []methodFile   `json:"methods,omitempty"`
	Properties    []propertyFile `json:"properties,omitempty"`
}

// fieldsFileName is the one file in a metadata directory that holds record
// field types instead of a class.
const fieldsFileName = "fields.json"

// DirResolver implements Resolver over a directory of JSON metadata files:
// one file per application class plus an optional fields.json with record
// field types. Files are schema-validated on load.
type DirResolver struct {
	classes map[string]*TypeMetadata
	fields  map[string]*typesys.TypeInfo
	logger  *slog.Logger
}

// DirOption configures a DirResolver
type DirOption func(*DirResolver)

// WithLogger enables debug logging of metadata loads.
func WithLogger(logger *slog.Logger) DirOption {
	return func(r *DirResolver) { r.logger = logger }
}

// NewDirResolver loads every metadata file under dir. A CBOR snapshot
// (.metadata.cbor) is consulted first and refreshed after a full load, so
// repeated runs skip JSON parsing and schema validation when nothing
// changed.
func NewDirResolver(dir string, opts ...DirOption) (*DirResolver, error) {
	r := &DirResolver{
		classes: make(map[string]*TypeMetadata),
		fields:  make(map[string]*typesys.TypeInfo),
	}
	for _, opt := range opts {
		opt(r)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading metadata directory: %w", err)
	}

	var jsonFiles []string
	var newest time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		jsonFiles = append(jsonFiles, filepath.Join(dir, entry.Name()))
		if info, err := entry.Info(); err == nil && info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}

	snapshotPath := filepath.Join(dir, snapshotFileName)
	if snap, ok := loadSnapshot(snapshotPath, newest); ok {
		r.debugf("metadata loaded from snapshot", "classes", len(snap.Classes))
		r.install(snap)
		return r, nil
	}

	snap, err := r.loadJSON(jsonFiles)
	if err != nil {
		return nil, err
	}
	r.install(snap)

	if err := writeSnapshot(snapshotPath, snap); err != nil {
		// snapshot is an optimization; a read-only directory is fine
		r.debugf("metadata snapshot not written", "error", err)
	}
	return r, nil
}

func (r *DirResolver) loadJSON(paths []string) (*snapshot, error) {
	classCompiled, err := compileSchema("class.json", classSchema)
	if err != nil {
		return nil, err
	}
	fieldsCompiled, err := compileSchema("fields.json", fieldsSchema)
	if err != nil {
		return nil, err
	}

	snap := &snapshot{Fields: make(map[string]string)}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		var raw interface{}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}

		if filepath.Base(path) == fieldsFileName {
			if err := fieldsCompiled.Validate(raw); err != nil {
				return nil, fmt.Errorf("invalid field metadata %s: %w", path, err)
			}
			if err := json.Unmarshal(data, &snap.Fields); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
			continue
		}

		if err := classCompiled.Validate(raw); err != nil {
			return nil, fmt.Errorf("invalid class metadata %s: %w", path, err)
		}
		var cf classFile
		if err := json.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		snap.Classes = append(snap.Classes, cf)
		r.debugf("class metadata loaded", "file", filepath.Base(path), "class", cf.QualifiedName)
	}
	return snap, nil
}

// install converts the serialized form into resolved TypeInfo values.
func (r *DirResolver) install(snap *snapshot) {
	for _, cf := range snap.Classes {
		meta := &TypeMetadata{
			QualifiedName: cf.QualifiedName,
			BaseClass:     cf.BaseClass,
		}
		for _, mf := range cf.Methods {
			sig := MethodSig{Name: mf.Name, Visibility: mf.Visibility}
			if mf.Returns != "" {
				sig.Return = TypeFromString(mf.Returns)
			}
			for _, pf := range mf.Parameters {
				sig.Parameters = append(sig.Parameters, ParameterSig{
					Name: pf.Name,
					Type: TypeFromString(pf.Type),
					Out:  pf.Out,
				})
			}
			meta.Methods = append(meta.Methods, sig)
		}
		for _, pf := range cf.Properties {
			meta.Properties = append(meta.Properties, PropertySig{
				Name:       pf.Name,
				Type:       TypeFromString(pf.Type),
				ReadOnly:   pf.ReadOnly,
				Visibility: pf.Visibility,
			})
		}
		r.classes[strings.ToLower(cf.QualifiedName)] = meta
	}
	for name, typeName := range snap.Fields {
		r.fields[strings.ToLower(name)] = TypeFromString(typeName)
	}
}

// GetTypeMetadata implements Resolver.
func (r *DirResolver) GetTypeMetadata(qualifiedName string) *TypeMetadata {
	return r.classes[strings.ToLower(qualifiedName)]
}

// GetFieldType implements Resolver.
func (r *DirResolver) GetFieldType(fieldName string) *typesys.TypeInfo {
	return r.fields[strings.ToLower(fieldName)]
}

func (r *DirResolver) debugf(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func compileSchema(name, source string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	url := "schema://" + name
	if err := compiler.AddResource(url, strings.NewReader(source)); err != nil {
		return nil, fmt.Errorf("loading schema %s: %w", name, err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", name, err)
	}
	return compiled, nil
}
