// Package cursor streams the selected variants of a dataset one record at
// a time.
//
// Every Cursor walks the variant indices selected when it was created, in
// increasing order:
//
//	unstarted --Reset/Next--> positioned(i) --Next--> ... --> exhausted
//
// Read decodes the record at the current index. The Kind decides how: a
// stride-one element, a genotype block over the selected samples, or a
// ragged sub-range located through a length index.
//
//	c, err := cursor.New(ctx, file, cursor.Genotype, "")
//	for ok := c.Reset(); ok; ok = c.Next() {
//	    buf, err := c.Read(ctx)
//	    ...
//	}
package cursor
