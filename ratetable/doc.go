// Package ratetable recovers branch currency rates from a bank rates page.
//
// The page is read as a flat stream of tags. Headings and other short text
// blocks that name a city and carry a number are taken as branch titles, and
// every table that follows a title is read row by row into the rates of that
// branch. Rows that do not look like a currency quote are skipped, so a broken
// page yields fewer rates rather than an error.
package ratetable
