// Package posts provides an in-memory, append-only collection of posts with
// positional (skip/limit) pagination.
//
// The collection is a single explicitly constructed instance that callers
// pass to whatever transport wraps it:
//
//	srv := posts.New()
//	p, _ := srv.Create(ctx, &model.Payload{Text: "hello"})
//	page, _ := srv.FindMany(ctx, dao.Skip(10), dao.Limit(5))
//
// Records keep their creation order for the lifetime of the process. Reads
// return snapshots that never alias the stored records.
package posts
