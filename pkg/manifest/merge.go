package manifest

// DefaultsDeep returns a copy of target with gaps filled from sources, in
// order. A key is only filled when target has no value for it; when both sides
// hold objects the fill recurses. Arrays and scalars are never combined, so a
// present value always wins over any later source. Inputs are not modified.
func DefaultsDeep(target Document, sources ...Document) Document {
	out := cloneObject(target)
	for _, src := range sources {
		fillGaps(out, src)
	}
	return Document(out)
}

func fillGaps(dst, src map[string]any) {
	for key, sv := range src {
		dv, present := dst[key]
		if !present {
			dst[key] = Clone(sv)
			continue
		}
		dObj, dok := asObject(dv)
		sObj, sok := asObject(sv)
		if dok && sok {
			fillGaps(dObj, sObj)
		}
	}
}
