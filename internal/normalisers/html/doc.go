// Package html provides a Normaliser for HTML documents. It extracts
// readable text, stripping tags, scripts and styles and decoding entities.
// The <title> element becomes the title and <meta name="keywords"> the tags.
package html
