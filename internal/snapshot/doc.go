/*
Package snapshot encodes a whole table into a single byte stream and decodes
it back.

# Format

 1. Magic "IVRY" (4 bytes).
 2. Format version (1 byte), currently 1.
 3. Body, a msgpack stream:
    - column count (int), row count (int);
    - per column: kind tag (uint), normalized name (string), row count (int),
      then that many cell values (string, int64, float64, bool, or uint code
      point for char).
 4. Trailer: xxhash64 of everything before it, 8 bytes big-endian.

Decoding re-validates the table rather than trusting the stream: every column
must declare the table's row count, the first column must be the text ID
column, and IDs must be unique. Any violation is a CorruptError, which
matches types.ErrCorruptSnapshot under errors.Is.
*/
package snapshot
