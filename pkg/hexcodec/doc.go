/*
Package hexcodec converts between byte buffers and their hex text form.

The text form is a sequence of two-digit hexadecimal bytes separated by whitespace,
for example "AA B0 01 02". Decoding accepts any mix of case and any run of
whitespace between tokens; encoding always produces lowercase tokens joined by a
single space, so Encode(Decode(x)) is the normalized form of x.
*/
package hexcodec
