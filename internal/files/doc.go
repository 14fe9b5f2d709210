// Package files groups input discovery for RSML documents:
//   - filesystem: providers for the local disk, memory (tests) and S3, plus a scheme router
//   - scanner: expands files, directories and s3:// prefixes into RSML paths
package files
