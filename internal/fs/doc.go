// Package fs abstracts the file operations behind blobstore.LocalStore so
// that staging and publishing a blob can be exercised against injected
// failures.
//
// Production code uses [Default]. Tests wrap it in a [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("manifest", fs.Fault{FailAfterBytes: -1, FailOnSync: true})
//
// Operations take no context.Context. Local file calls are not
// interruptible once issued; remote stores go through blobstore.Blob.
package fs
