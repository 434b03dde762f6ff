// Package scan lists the flat input directories of a batch and applies the
// ordering rule that decides which video pairs with which audio.
//
// ListFiles returns regular files in raw directory enumeration order, which
// differs between filesystems and operating systems. Order turns that into a
// deterministic sequence unless the caller explicitly asks for the raw
// listing.
package scan
