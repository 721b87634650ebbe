/*
Package ports defines the driven ports (interfaces) of formflow.

These interfaces decouple materialization from external implementations, so the
same Materializer runs against pdftk or an in-memory fake, a local directory
or a redis-coordinated fleet.

# Key Interfaces

  - Filler: the external capability that reads a template's fields and fills it.
  - NameReserver: atomically claims collision-free output names.
  - OutputWriter: stores the filled document under a reserved name.
*/
package ports
