// Package files groups the dataset file access used by the loader.
//
//   - filesystem: local, in-memory and S3 file providers behind one interface
//   - discovery: recursive, extension-filtered, sorted listing of a dataset root
package files
