package ply

import "github.com/jtang613/goply/internal/schema"

// Transcode reads every element and property of the PLY file at srcPath and
// re-emits it at dstPath in the given storage mode, exercising the §8
// "text <-> binary transcoding" round-trip property purely through the
// public Reader/Writer surface — no caller-registered callbacks needed, the
// schema alone drives the copy.
func Transcode(srcPath, dstPath string, mode StorageMode) error {
	r, err := Open(srcPath, nil)
	if err != nil {
		return err
	}
	defer r.Close()
	if err := r.ParseHeader(); err != nil {
		return err
	}

	w, err := Create(dstPath, mode, nil)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := copySchema(r.Schema(), w); err != nil {
		return err
	}
	if err := w.WriteHeader(); err != nil {
		return err
	}
	writeErr, err := registerForwardingCallbacks(r, w)
	if err != nil {
		return err
	}
	if err := r.Read(); err != nil {
		if *writeErr != nil {
			return *writeErr
		}
		return err
	}
	return nil
}

func copySchema(sc *schema.Schema, w *Writer) error {
	for _, c := range sc.Comments {
		if err := w.AddComment(c); err != nil {
			return err
		}
	}
	for _, o := range sc.ObjInfo {
		if err := w.AddObjInfo(o); err != nil {
			return err
		}
	}
	for _, el := range sc.Elements {
		if err := w.AddElement(el.Name, el.Count); err != nil {
			return err
		}
		for _, p := range el.Properties {
			if p.Flavor == schema.List {
				if err := w.AddProperty(p.Name, "list", p.LengthKind.String(), p.ListValue.String()); err != nil {
					return err
				}
			} else if err := w.AddProperty(p.Name, p.ValueKind.String(), "", ""); err != nil {
				return err
			}
		}
	}
	return nil
}

func registerForwardingCallbacks(r *Reader, w *Writer) (*error, error) {
	writeErr := new(error)
	forward := func(arg *Argument) Signal {
		if *writeErr != nil {
			return Abort
		}
		if err := w.Write(arg.Value); err != nil {
			*writeErr = err
			return Abort
		}
		return Continue
	}
	for _, el := range r.Elements() {
		for _, p := range el.Properties {
			if _, err := r.SetReadCallback(el.Name, p.Name, forward, nil, 0); err != nil {
				return writeErr, err
			}
		}
	}
	return writeErr, nil
}
