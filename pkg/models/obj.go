package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/cubist/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse obj %s: %w", path, err)
	}
	return mesh, nil
}

// ParseOBJ reads positions (v), texture coordinates (vt) and faces (f)
// from r. Indices are converted from 1-based to 0-based (negative indices
// count back from the end), V is flipped, and polygons are fanned into
// triangles: a quad 1 2 3 4 becomes (1,2,3) and (1,3,4).
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	textured := true

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			mesh.Points = append(mesh.Points, math3d.V3(v[0], v[1], v[2]))

		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			mesh.UVs = append(mesh.UVs, math3d.V2(v[0], 1-v[1]))

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			points := make([]int, 0, len(fields)-1)
			uvs := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				p, uv, hasUV, err := parseFaceRef(ref, len(mesh.Points), len(mesh.UVs))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				points = append(points, p)
				uvs = append(uvs, uv)
				textured = textured && hasUV
			}
			for i := 1; i+1 < len(points); i++ {
				mesh.Triangles = append(mesh.Triangles, [3]int{points[0], points[i], points[i+1]})
				mesh.UVMap = append(mesh.UVMap, [3]int{uvs[0], uvs[i], uvs[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	if !textured {
		mesh.UVs = nil
		mesh.UVMap = nil
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	mesh.CalculateBounds()
	return mesh, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range n {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", fields[i], err)
		}
		out[i] = f
	}
	return out, nil
}

// parseFaceRef parses "p", "p/uv", "p//n" or "p/uv/n".
func parseFaceRef(ref string, numPoints, numUVs int) (p, uv int, hasUV bool, err error) {
	parts := strings.Split(ref, "/")
	p, err = resolveIndex(parts[0], numPoints)
	if err != nil {
		return 0, 0, false, err
	}
	if len(parts) > 1 && parts[1] != "" {
		uv, err = resolveIndex(parts[1], numUVs)
		if err != nil {
			return 0, 0, false, err
		}
		hasUV = true
	}
	return p, uv, hasUV, nil
}

func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q: %w", s, err)
	}
	switch {
	case i > 0:
		return i - 1, nil
	case i < 0:
		return count + i, nil
	default:
		return 0, fmt.Errorf("index 0 is not valid")
	}
}
