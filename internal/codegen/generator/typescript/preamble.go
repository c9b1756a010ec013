package typescript

// preambleTemplate is emitted once, before every generated class.
//
// borsh 0.7 resolves a string field type by calling
// reader[`read${capitalizeFirstLetter(type)}`], which has no PublicKey
// variant. The hack installs readPublicKeyHack/writePublicKeyHack so that
// fields typed 'publicKeyHack' round-trip as 32 raw bytes.
const preambleTemplate = `import { BinaryReader, BinaryWriter } from '{{.BorshModule}}';
{{- if .PublicKeyHack}}
import { PublicKey } from '{{.PublicKeyModule}}';

const borshPublicKeyHack = () => {
  // borsh 0.7 dispatches on writer[` + "`write${capitalizeFirstLetter(fieldType)}`" + `](value),
  // which fails with "writer[capitalizeFirstLetter(...)] is not a function" for PublicKey.
  ;(BinaryReader.prototype as any).readPublicKeyHack = function () {
    const reader = this as unknown as BinaryReader
    const array = reader.readFixedArray(32)
    return new PublicKey(array)
  }
  ;(BinaryWriter.prototype as any).writePublicKeyHack = function (value: PublicKey) {
    const writer = this as unknown as BinaryWriter
    writer.writeFixedArray(value.toBytes())
  }
}

borshPublicKeyHack();
{{- end}}

class Struct {
  constructor(properties: any) {
    Object.keys(properties).map(key => {
      this[key as keyof typeof this] = properties[key];
    });
  }
}

class Enum {
  enum: string | undefined;

  constructor(properties: any) {
    if (Object.keys(properties).length !== 1) {
      throw new Error('Enum can only take single value');
    }
    Object.keys(properties).map(key => {
      this[key as keyof typeof this] = properties[key];
      this.enum = key;
    });
  }
}
`
