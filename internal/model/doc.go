// Package model defines the tag record and the field resolver used by the
// rule engine.
//
// # Record
//
// Record holds the metadata of one audio file. Scalar tags are strings and
// multi-valued tags (Artists, Performers, AlbumArtists, Composers) are
// ordered string slices:
//
//	rec := &model.Record{Album: "Greatest Hits", Artists: []string{"Various Artists"}}
//	rec.MarkClean()
//
// # Values
//
// Value carries a field's content together with its multiplicity. The scalar
// view of a sequence is its first element:
//
//	v := model.List("The Solos", "Guest")
//	v.Scalar() // "The Solos"
//
// # Field resolver
//
// LookupField maps a field token to a typed accessor. Unknown names fail
// with ErrFieldNotFound; dotted paths resolve by their last segment:
//
//	f, err := model.LookupField("Artists")
//	if err != nil {
//	    return err
//	}
//	f.Set(rec, model.List("The Solos"))
//
// Only the fields returned by Fields are addressable. Numeric fields such as
// Year and Track are carried on the Record but cannot be named in a rule.
package model
