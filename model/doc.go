// Package model contains the records kept by the posts collection.
package model
